/*
Package cash defines a simple implementation of sending coins
between multi-signature wallets.

There is a Wallet data model, which contains a set of coins
and belongs to one account, which can authorize sending money
from it.

There is a SendMsg to send money from one wallet to another.

There is also a Controller, so other extensions can modify
balances without having to create and process SendMsgs, for
example reserving payment for stored bytes.
*/
package cash

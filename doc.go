/*
Package mosaic defines all the common interfaces that tie the engine
together: addresses and conditions, transactions and messages, handlers
and decorators, and the kv-store contracts the state is persisted under.

Concrete implementations live in the subpackages: errors carries the
stable error codes, store the cache-wrapping kv stores, orm the typed
buckets, app the ABCI application shell and x/multisig the authorization
engine itself.
*/
package mosaic

/*
Package sigs provides the authentication bridge between the transaction
envelope and the message handlers.

The host process that feeds transactions into the engine has already
verified the cryptographic signatures on the envelope. What remains for
the state machine is to turn the declared signers into conditions that
handlers can query through the x.Authenticator interface.

The Decorator reads the signers from any transaction implementing
SignedTx and stores them in the request context. Authenticate then
exposes them to downstream handlers.
*/
package sigs

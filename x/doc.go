/*
Package x contains the extensions of the mosaic node

Extensions implement common functionality (Handler, Decorator,
etc.) and can be combined together to construct an application.

The x package itself holds the glue that extensions share:
the Authenticator abstraction to check transaction credentials
and a few serialization helpers.
*/
package x

/*
Package errors implements custom error interfaces for the mosaic node.

Each returned error is built around a registered root error. A root error
carries a unique numeric code that is returned over the ABCI interface so
that clients can reliably test for a failure class without parsing strings.

Use Wrap and Wrapf to give the caller more context. Wrapping preserves the
code of the innermost registered error and attaches the stack trace once,
at the lowest frame.
*/
package errors

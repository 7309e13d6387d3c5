/*
Package multisig implements an on-ledger multisignature authorization
engine.

A Root registry names a set of operators, an approval threshold and a
delegated execution target. Operators open signing sessions against the
registry, each session carrying an opaque payload and the account roles
the forwarded call will need. Once the number of distinct approvals on
a session exactly equals the registry threshold the session becomes
Approved, and any signer may then Execute it, which forwards the stored
payload to the delegated target with the registry's derived condition
attached as an authorization credential. An executed session is
terminal.

Registry and session records live at derived addresses. The derivation
is a pluggable capability (Derivator) since the unforgeability of the
derived address space is a property of the host, not of this engine.

Session records grow as approvals are recorded. Every byte of a session
record must be backed by a storage reserve held at the session's own
address. Sign tops the reserve up from the caller's wallet whenever the
record's serialized size changes.
*/
package multisig

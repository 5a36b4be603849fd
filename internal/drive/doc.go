// Package drive binds the conversion pipeline to the Google Drive API.
//
// A Client is constructed per invocation from the bearer token forwarded by
// the upstream proxy and is discarded when the call ends; no client or
// credential state is shared across invocations. The package also contains
// the export planner, which maps a file's MIME type to a retrieval strategy,
// and the retriever, which executes that strategy under size and deadline
// bounds.
package drive

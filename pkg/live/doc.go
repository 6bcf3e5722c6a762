// Package live pushes server-rendered fragments to open pages over
// WebSocket.
//
// Connections are grouped by session ID. The server never reads
// application data from the client; the socket is a one-way channel for
// Message values:
//
//	{"type": "append", "target": "output", "html": "<div>...</div>"}
//
// The page's client script appends html as the last child of the element
// whose id is target.
package live

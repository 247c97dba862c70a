// Package testutil provides builders for assembling cluster snapshots in
// tests. Each builder returns a fully formed resource with a deterministic
// UID; State collects them into a tick-zero ClusterState.
//
// Usage:
//
//	state := testutil.State(
//		testutil.Node("node-1"),
//		testutil.Deployment("web", 3, "nginx:1.25"),
//		testutil.Service("web-svc", map[string]string{"app": "web"}),
//	)
package testutil

// Package ensemble coordinates a small set of autonomous text-in/text-out
// agents through fixed execution topologies and exposes every step of the
// execution as a typed, ordered, replayable event stream.
//
// The package is built around two components:
//
//   - bus – per-run event hub with JSONL log persistence, in-process
//     subscribers and best-effort live fan-out
//   - orchestration – five execution strategies (chain, fan-out/fan-in,
//     hand-off, round-robin rounds, manager-directed rounds) driving agent
//     facades and translating their lifecycle into bus events
//
// End-users typically interact via the Session façade exposed by the root
// package:
//
//	session, _ := ensemble.New(
//		ensemble.WithLogDir("logs"),
//		ensemble.WithAgent("Writer", writer),
//		ensemble.WithAgent("Critic", critic),
//	)
//	results, _ := session.Run(ctx, "chain", "draft a release note")
//	events := session.Bus().Snapshot()
//
// A past run can be reconstructed from its log without re-invoking any agent
// via bus.LoadReplay.
package ensemble

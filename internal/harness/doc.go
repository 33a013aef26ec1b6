// Package harness replays scripted event streams through the router
// without kernel devices.
//
// A scenario is a YAML file of timestamped input events plus optional
// expectations:
//
//	name: bounce
//	description: reversal inside the window is dropped
//	wheel: {debounce_time_ms: 50}
//	events:
//	  - {at_ms: 0, type: REL, code: REL_WHEEL, value: 1}
//	  - {at_ms: 0, type: SYN, code: SYN_REPORT}
//	  - {at_ms: 20, type: REL, code: REL_WHEEL, value: -1}
//	  - {at_ms: 20, type: SYN, code: SYN_REPORT}
//	expect: [1]
//	assertions:
//	  - {type: suppressed, axis: vertical, count: 1}
//
// Run drives a real router.Router over a testutil.ScriptedSource and
// RecordingSink, so the debounce decisions are the production ones.
// Result.Render gives a deterministic text trace used by the golden tests
// and by `scrollguard simulate`.
package harness

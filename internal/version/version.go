// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Horizon view, observer config, true solar terms from meeus
// 0.2.0 - Camera focus transitions, cycle table navigation, YAML config
// 0.1.0 - Initial release: orrery TUI, sexagenary labels, headless summary

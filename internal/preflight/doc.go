// Package preflight provides readiness checks for the external tools and
// filesystem paths an analysis run depends on.
//
// The checks run in two contexts:
//   - The analyze command calls RunAll before loading audio, so a missing
//     binary or model graph fails fast instead of mid-run.
//   - The CLI "essendeejay status" command uses the individual check
//     functions to display tool and path health.
package preflight

// Package validate checks generic trees against parsed schemas and reports
// findings as structured Issues. It is the single validation entry point for
// typed nodes, the model facade, and the CLI.
package validate

// Package label owns cable label rendering: field resolution from cable
// snapshots, placeholder substitution into ZPL templates, template safety
// checks, and the template registry. It performs no I/O.
package label

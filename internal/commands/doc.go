// Package commands wires the cobra command tree to configuration loading and the run logic.
package commands

// Package sched runs named jobs on independent cron triggers.
//
// Specs use the robfig/cron syntax with optional seconds field, so both
// "30 19 * * *" and "0 30 19 * * *" are accepted. Every job gets its own
// trigger timeline; ticks of different jobs run concurrently with no
// ordering guarantee. A tick of a job whose previous run is still executing
// is skipped, keeping each job single-writer over its own state.
//
// Stop prevents new ticks and waits for in-flight runs, bounded by the
// caller's context; on timeout the run context is cancelled so blocked I/O
// unwinds.
package sched

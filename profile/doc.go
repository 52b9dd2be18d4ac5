// Package profile provides optional runtime profiling for the gwbasic
// interpreter, backed by [github.com/pkg/profile].
//
// Profiling is compiled in only with the pprof build tag:
//
//	go build -tags pprof -o gwbasic .
//
// Without the tag, [Modes] is empty and [Config.Start] returns a no-op.
//
// # Modes
//
//   - allocs:    memory allocation profiling (all allocations)
//   - block:     blocking profile
//   - clock:     wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: goroutine profiling
//   - heap:      heap profiling (live allocations)
//   - mem:       general memory profiling
//   - mutex:     mutex contention
//   - thread:    thread creation
//   - trace:     execution trace
//
// # Usage
//
//	stop := profile.Make(
//		profile.WithMode("cpu"),
//		profile.WithPath(dir),
//	).Start()
//	defer stop.Stop()
//
// A long-running BASIC program is a good CPU profiling target:
//
//	gwbasic --pprof-mode=cpu run bench.bas
//	go tool pprof -http=: ~/.cache/gwbasic/pprof/cpu.pprof
//
// With the tag set the package also imports [net/http/pprof], registering its
// handlers on [net/http.DefaultServeMux] for programs that serve HTTP.
package profile

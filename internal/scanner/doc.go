// Package scanner implements the concurrent multi-probe scanning engine.
//
// Architecture overview:
//
//   - Probe primitives perform single bounded network operations: one TLS
//     handshake (TLSProbe), one TCP connect per port (PortScanner), one DNS
//     lookup per label (SubdomainScanner), one HTTP GET (HeaderScanner).
//   - probeRunner coordinates fan-out/join-all execution with bounded
//     concurrency, optional pacing, and a per-probe timeout. Probes record
//     outcomes by catalog index so judgment never depends on completion order.
//   - Each scheduler normalizes its raw probe outcomes into Finding records
//     through a fixed post-hoc policy, making output deterministic for
//     identical network conditions.
//   - Scanner orchestrates the requested schedulers concurrently, converts
//     scheduler-level panics into section findings, and assembles the
//     ScanResult. Summarize projects any finding collection into the 0-100
//     pass-ratio score.
//
// Probe-level failures (timeouts, refused connects, NXDOMAIN, handshake
// errors) are data, not errors: they become findings, so partial results are
// always available. The only error Scan returns is a structurally unusable
// request.
package scanner

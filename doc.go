// Package taxetrade computes Austrian capital-gains tax (KESt) on equity
// compensation using the statutory moving-average cost-basis method
// ("Gleitender Durchschnittspreis").
//
// The core functionalities include:
//   - Event Model: an immutable record of each RSU vest, ESPP purchase, or
//     sale, priced in EUR via the daily ECB reference rate.
//   - Ledger Engine: a stateful, order-sensitive fold over the event stream
//     that maintains the portfolio position, recomputes the moving-average
//     cost on every acquisition, and realizes gains and losses on disposals.
//   - Exchange-Rate Resolver: a cached lookup of the official ECB USD/EUR
//     reference rates with a weekend/holiday fallback policy.
//   - Tax Summary: per-year gain/loss buckets with the statutory same-year
//     loss offset (no carryforward) and the 27.5% KESt rate.
//   - Data Persistence: encoding and decoding of events to and from a
//     human-readable, version-controllable JSONL file.
//
// All share quantities and monetary values use exact decimal arithmetic;
// binary floating point never enters a money path. This package serves as
// the foundational logic for the `kest` command-line tool.
package taxetrade

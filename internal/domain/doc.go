// Package domain models the river monitoring node: raw analog samples, the
// calibrated quantities derived from them, the flood risk classification and
// the report record published to the display and network consumers.
//
// # Sensor Proxies
//
// Two 12-bit analog channels (0–4095) stand in for the field sensors:
//
//	Rain channel  (x): a YL-83 style rain plate, linear in intensity.
//	Level channel (y): an ultrasonic distance sensor, centred on the
//	                   baseline level with a dead zone around mid-scale.
//
// # Calibration
//
// Both transforms use fixed calibration constants. They are load-bearing and
// must not be rounded or tuned:
//
//	Level, baseline b:
//	  y > 2100   →  b + b·(y − 2048) / 2047   (rising)
//	  y < 1800   →  b − b·(2048 − y) / 2047   (falling)
//	  otherwise  →  b                          (dead zone)
//
//	Rain, maximum m:
//	  m · x / 4095
//
// The level transform is not clamped. The intended range is [0, 2·b] (0–10 m
// with the default 5 m baseline) but y = 0 yields a slightly negative level
// and out-of-spec raw values go further. Such readings propagate unchanged and
// are flagged via [Metrics.OutOfRange].
//
// # Risk Classification
//
// Evaluated in strict first-match order (see [Classify]):
//
//	DANGER    level ≥ 9.0, or level ≥ 7.0 with rain > 50
//	ALERT     level > baseline with rain > 50
//	ATTENTION level > baseline with rain ≤ 50, or level ≤ baseline with rain > 70
//	SAFE      everything else
//
// Labels are the Portuguese display tokens PERIGO, ALERTA, ATENCAO and SEGURO,
// which are part of the external contract of the display and the report page.
//
// # Report IDs
//
// Report IDs start at 1 on every boot and grow by one per generation. They are
// not persisted; sinks receive a per-boot UUID alongside to tell runs apart.
package domain

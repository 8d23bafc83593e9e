// Package domain models the global land-surface temperature dataset and the
// visual encodings derived from it.
//
// # Data Source
//
// The dataset is the freeCodeCamp "global-temperature.json" reference file,
// itself derived from the Berkeley Earth monthly land-surface averages:
//
//	{
//	  "baseTemperature": 8.66,
//	  "monthlyVariance": [
//	    {"year": 1753, "month": 1, "variance": -1.366},
//	    ...
//	  ]
//	}
//
// Conventions:
//
//	baseTemperature  reference absolute temperature in °C (the 1951–1980 mean).
//	month            calendar month, 1 = January. Rendered attributes use the
//	                 zero-based index (month - 1).
//	variance         deviation from baseTemperature in °C. The absolute
//	                 temperature of a record is baseTemperature + variance.
//
// Records are not validated. A record without "variance" decodes to NaN and a
// record without "year" or "month" decodes to 0; both render as-is.
//
// # Colour Buckets
//
// Variance maps onto nine sequential-diverging colours (cold → warm) through
// ascending thresholds. A value equal to a threshold belongs to the cooler
// bucket:
//
//	<= -5.5  <= -4.5  <= -3.5  <= -2.5  <= -1.51  <= 0  <= 2.5  <= 3.5  > 3.5
//
// See [ColorBucketFor].
//
// # Tooltip
//
// Hovering a cell shows "<year> - <Month>", the absolute temperature to two
// significant figures and the signed variance, both suffixed with ℃. See
// [NewTooltipContent] and [Tooltip].
package domain

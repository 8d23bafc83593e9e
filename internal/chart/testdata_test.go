package chart

import (
	"github.com/couchcryptid/temperature-heatmap/internal/domain"
)

const testBaseTemperature = 8.66

// testDataset spans 1900–2015 with January and June for every year.
func testDataset() domain.Dataset {
	var records []domain.TemperatureRecord
	for year := 1900; year <= 2015; year++ {
		records = append(records,
			domain.TemperatureRecord{Year: year, Month: 1, Variance: -0.5},
			domain.TemperatureRecord{Year: year, Month: 6, Variance: 1.2},
		)
	}
	return domain.Dataset{BaseTemperature: testBaseTemperature, Records: records}
}

package artifact

import (
	"math"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"fitsync/internal/model"
)

type activityParquetRow struct {
	ID         string  `parquet:"name=id, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	StravaID   string  `parquet:"name=strava_id, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Source     string  `parquet:"name=source, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Name       string  `parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Type       string  `parquet:"name=type, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Date       string  `parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	DurationS  float64 `parquet:"name=duration_s, type=DOUBLE"`
	DistanceM  float64 `parquet:"name=distance_m, type=DOUBLE"`
	ElevationM float64 `parquet:"name=elevation_m, type=DOUBLE"`
	AvgPowerW  float64 `parquet:"name=avg_power_w, type=DOUBLE"`
	NormPowerW float64 `parquet:"name=norm_power_w, type=DOUBLE"`
	AvgHR      float64 `parquet:"name=avg_hr_bpm, type=DOUBLE"`
	MaxHR      float64 `parquet:"name=max_hr_bpm, type=DOUBLE"`
	AvgSpeed   float64 `parquet:"name=avg_speed_mps, type=DOUBLE"`
	AvgCadence float64 `parquet:"name=avg_cadence, type=DOUBLE"`
	Calories   float64 `parquet:"name=calories, type=DOUBLE"`
	TSS        float64 `parquet:"name=tss, type=DOUBLE"`
	IF         float64 `parquet:"name=if, type=DOUBLE"`
	Device     string  `parquet:"name=device, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	IsGarmin   bool    `parquet:"name=is_garmin, type=BOOLEAN"`
}

// WriteActivitiesParquet writes the merged collection as a columnar archive
// for offline analysis. Absent optional metrics become NaN.
func WriteActivitiesParquet(path string, acts []model.Activity) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	pw, err := writer.NewParquetWriter(fw, new(activityParquetRow), 4)
	if err != nil {
		_ = fw.Close()
		return err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, a := range acts {
		row := activityParquetRow{
			ID:         a.ID,
			StravaID:   a.StravaID,
			Source:     string(a.Source),
			Name:       a.Name,
			Type:       a.Type,
			Date:       a.Date,
			DurationS:  a.DurationS,
			DistanceM:  a.DistanceM,
			ElevationM: a.ElevationM,
			AvgPowerW:  valueOrNaN(a.AvgPowerW),
			NormPowerW: valueOrNaN(a.NormPowerW),
			AvgHR:      valueOrNaN(a.AvgHR),
			MaxHR:      valueOrNaN(a.MaxHR),
			AvgSpeed:   valueOrNaN(a.AvgSpeedMPS),
			AvgCadence: valueOrNaN(a.AvgCadence),
			Calories:   valueOrNaN(a.Calories),
			TSS:        a.TSS,
			IF:         valueOrNaN(a.IF),
			Device:     a.Device,
			IsGarmin:   a.IsGarmin,
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			_ = fw.Close()
			return err
		}
	}
	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return err
	}
	return fw.Close()
}

func valueOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

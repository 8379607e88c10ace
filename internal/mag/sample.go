package mag

// Sample is one magnetometer reading as published over MQTT.
// mx,my,mz are the raw signed axis values; norm is the field
// magnitude in the same raw units. Time is RFC3339Nano.
type Sample struct {
	Source string  `json:"source"`
	Mx     int16   `json:"mx"`
	My     int16   `json:"my"`
	Mz     int16   `json:"mz"`
	Norm   float64 `json:"norm"`
	Time   string  `json:"time"`
}

type SampleSource interface {
	NextSample() (Sample, error)
}

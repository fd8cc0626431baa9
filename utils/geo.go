package utils

import "math"

const earthRadiusKm = 6371.0

func degToRad(deg float64) float64 {
	return deg * (math.Pi / 180)
}

// Distance tính khoảng cách Haversine giữa hai tọa độ, đơn vị mét
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := degToRad(lat2 - lat1)
	dLon := degToRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degToRad(lat1))*math.Cos(degToRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c * 1000
}

// Geofence là vùng tròn quanh văn phòng
type Geofence struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

// Enabled trả về false khi chưa cấu hình bán kính
func (g Geofence) Enabled() bool {
	return g.RadiusMeters > 0
}

func (g Geofence) Contains(lat, lng float64) bool {
	return Distance(g.Latitude, g.Longitude, lat, lng) <= g.RadiusMeters
}

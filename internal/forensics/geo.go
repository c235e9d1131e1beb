package forensics

import (
	"hash/fnv"
	"math/rand/v2"
)

// MaxHops bounds the number of points in a trace
const MaxHops = 15

// Node labels used in traces
const (
	SuspiciousNode = "Suspicious Node"
	RoutingServer  = "Routing Server"
)

// GeoPoint is a simulated location for one relay address. Locations are
// illustrative only and do not come from any geolocation source.
type GeoPoint struct {
	IP      string
	Region  string
	Lat     float64
	Lon     float64
	Context string
	Size    int
}

type hub struct {
	name     string
	lat, lon float64
}

var hubs = []hub{
	{"US", 37.09, -95.71},
	{"DE", 51.16, 10.45},
	{"JP", 35.67, 139.65},
	{"RU", 55.75, 37.61},
	{"AU", -25.27, 133.77},
}

const jitter = 10.0

// GeoTrace places each address near one of the major hosting hubs. The
// placement is deterministic per address. The first hop is flagged as the
// suspicious origin.
func GeoTrace(ips []string) []GeoPoint {
	if len(ips) > MaxHops {
		ips = ips[:MaxHops]
	}

	points := make([]GeoPoint, 0, len(ips))
	for i, ip := range ips {
		rng := seeded(ip)
		h := hubs[rng.IntN(len(hubs))]

		p := GeoPoint{
			IP:      ip,
			Region:  h.name,
			Lat:     h.lat + (rng.Float64()*2-1)*jitter,
			Lon:     h.lon + (rng.Float64()*2-1)*jitter,
			Context: RoutingServer,
			Size:    5,
		}
		if i == 0 {
			p.Context = SuspiciousNode
			p.Size = 20
		}
		points = append(points, p)
	}

	return points
}

func seeded(ip string) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(ip))
	sum := h.Sum64()
	return rand.New(rand.NewPCG(sum, sum>>32|sum<<32))
}

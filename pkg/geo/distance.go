package geo

import "math"

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// Distance returns the great-circle distance between two coordinates in
// kilometers.
func Distance(latA, lngA, latB, lngB float64) float64 {
	dLat := radians(latB - latA)
	dLng := radians(lngB - lngA)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(latA))*math.Cos(radians(latB))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Cluster groups nearby nodes. Centroid coordinates are the mean of the
// member coordinates.
type Cluster struct {
	ID          int     `json:"id"`
	CentroidLat float64 `json:"centroid_lat"`
	CentroidLng float64 `json:"centroid_lng"`
	Members     []Node  `json:"members"`
	Size        int     `json:"size"`
}

// ClusterNodes groups nodes greedily: each not-yet-clustered node seeds a
// new cluster that absorbs every other unclustered node within radiusKm of
// the seed. Seed order follows the input, which ExtractNodes keeps in graph
// node order, so results are deterministic.
func ClusterNodes(nodes []Node, radiusKm float64) []Cluster {
	if radiusKm <= 0 {
		radiusKm = 50
	}

	clustered := make([]bool, len(nodes))
	clusters := []Cluster{}
	for i, seed := range nodes {
		if clustered[i] {
			continue
		}
		clustered[i] = true
		cluster := Cluster{ID: len(clusters), Members: []Node{seed}}

		for j := i + 1; j < len(nodes); j++ {
			if clustered[j] {
				continue
			}
			if Distance(seed.Lat, seed.Lng, nodes[j].Lat, nodes[j].Lng) <= radiusKm {
				clustered[j] = true
				cluster.Members = append(cluster.Members, nodes[j])
			}
		}

		for _, m := range cluster.Members {
			cluster.CentroidLat += m.Lat
			cluster.CentroidLng += m.Lng
		}
		cluster.CentroidLat /= float64(len(cluster.Members))
		cluster.CentroidLng /= float64(len(cluster.Members))
		cluster.Size = len(cluster.Members)
		clusters = append(clusters, cluster)
	}
	return clusters
}

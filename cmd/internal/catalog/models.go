package catalog

// Artist is a catalog artist.
type Artist struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Song is a catalog song. ArtistID is nil for songs without an artist.
type Song struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ArtistID     *int64 `json:"artist_id"`
	KeySignature string `json:"key_signature"`
	Tempo        int    `json:"tempo"`
	Lyrics       string `json:"lyrics"`
}

package nasa

// PhotosResponse is the envelope returned for one earth date
type PhotosResponse struct {
	Photos []Photo `json:"photos"`
}

// Photo is one rover image record. Only ImgSrc drives downloading, the rest
// is carried through to metadata sidecars.
type Photo struct {
	ID        int64  `json:"id"`
	Sol       int    `json:"sol"`
	Camera    Camera `json:"camera"`
	ImgSrc    string `json:"img_src"`
	EarthDate string `json:"earth_date"`
	Rover     Rover  `json:"rover"`
}

// Camera identifies the instrument that took a photo
type Camera struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	RoverID  int    `json:"rover_id"`
	FullName string `json:"full_name"`
}

// Rover describes the rover a photo came from
type Rover struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	LandingDate string `json:"landing_date"`
	LaunchDate  string `json:"launch_date"`
	Status      string `json:"status"`
}

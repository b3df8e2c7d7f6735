package core

// Snapshot is a read-only copy of the full simulation state, safe to
// serialize after the snapshotting call returns. It is the only state
// surface exposed to visualizers and the websocket server.
type Snapshot struct {
	Tick      int                `json:"tick"`
	Width     int                `json:"width"`
	Height    int                `json:"height"`
	Cells     []CellType         `json:"cells"` // row-major
	DropPoint *Point             `json:"drop_point,omitempty"`
	Robots    []RobotSnapshot    `json:"robots"`
	Items     []ItemSnapshot     `json:"items"`
	Obstacles []ObstacleSnapshot `json:"obstacles"`
	Delivered int                `json:"delivered"`
	Steps     int                `json:"steps"`
	Done      bool               `json:"done"`
}

// RobotSnapshot is the serialized view of one robot.
type RobotSnapshot struct {
	ID       RobotID  `json:"id"`
	Pos      Point    `json:"pos"`
	Capacity int      `json:"capacity"`
	Load     int      `json:"load"`
	Carrying []ItemID `json:"carrying,omitempty"`
	Path     Path     `json:"path,omitempty"`
	Steps    int      `json:"steps"`
	Waiting  bool     `json:"waiting"`
}

// ItemSnapshot is the serialized view of one outstanding item.
type ItemSnapshot struct {
	ID       ItemID `json:"id"`
	Pos      Point  `json:"pos"`
	Weight   int    `json:"weight"`
	Picked   bool   `json:"picked"`
	Assigned bool   `json:"assigned"`
}

// ObstacleSnapshot is the serialized view of one dynamic obstacle.
type ObstacleSnapshot struct {
	Pos       Point  `json:"pos"`
	Category  string `json:"category"`
	Remaining int    `json:"remaining"`
}

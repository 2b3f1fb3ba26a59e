package api

// Role determines the fetch plan and view composition for a signed-in user.
type Role string

const (
	RoleCitizen Role = "CITIZEN"
	RoleNGO     Role = "NGO"
)

// Identity is the acting user as reported by the platform. Created server-side
// at registration; this layer only ever submits updates for Name and Number.
type Identity struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Number string `json:"number"`
	Role   Role   `json:"role"`
}

// ProfileUpdate is the mutable slice of an Identity. Zero-value fields are
// omitted from the PATCH body.
type ProfileUpdate struct {
	Name     string `json:"name,omitempty"`
	Number   string `json:"number,omitempty"`
	Password string `json:"password,omitempty"`
}

// Disaster types accepted by the report endpoints.
const (
	DisasterFlood      = "FLOOD"
	DisasterEarthquake = "EARTHQUAKE"
	DisasterFire       = "FIRE"
	DisasterStorm      = "STORM"
)

// Report statuses surfaced in the feeds.
const (
	StatusPending  = "PENDING"
	StatusResolved = "RESOLVED"
)

// ReportOwner is the reporting user as embedded in feed entries.
type ReportOwner struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Report is a single disaster report record.
type Report struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Type         string      `json:"type"`
	LocationName string      `json:"locationName"`
	Latitude     float64     `json:"latitude"`
	Longitude    float64     `json:"longitude"`
	Status       string      `json:"status"`
	Owner        ReportOwner `json:"user"`
}

// ReportDraft is the client-authored part of a report; id and status are
// assigned server-side.
type ReportDraft struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Type         string  `json:"type"`
	LocationName string  `json:"locationName"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
}

// Resource categories. The inventory form only ever submits one of these five.
const (
	CategoryFood      = "FOOD"
	CategoryMedical   = "MEDICAL"
	CategoryShelter   = "SHELTER"
	CategoryTransport = "TRANSPORT"
	CategoryTools     = "TOOLS"
)

// Categories lists the valid resource categories in form order.
func Categories() []string {
	return []string{CategoryFood, CategoryMedical, CategoryShelter, CategoryTransport, CategoryTools}
}

// Resource is one inventory line item owned by an NGO.
type Resource struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	ItemName    string `json:"itemName"`
	Quantity    int    `json:"quantity"`
	Unit        string `json:"unit"`
	Description string `json:"description,omitempty"`
}

// ResourceDraft is the client-authored part of a resource.
type ResourceDraft struct {
	Category    string `json:"category"`
	ItemName    string `json:"itemName"`
	Quantity    int    `json:"quantity"`
	Unit        string `json:"unit"`
	Description string `json:"description,omitempty"`
}

// AdviceKind discriminates the two shapes a knowledge-base answer can take.
type AdviceKind int

const (
	// AdvicePlain carries a single free-text reply.
	AdvicePlain AdviceKind = iota
	// AdviceStructured carries some subset of recovery position, rescue
	// steps, and precautions.
	AdviceStructured
)

// Advice is the knowledge-base answer payload. The server decides which
// fields are present; Kind is derived at decode time so callers can switch
// exhaustively instead of probing for empty strings.
type Advice struct {
	Kind             AdviceKind `json:"-"`
	Verified         bool       `json:"verified"`
	Title            string     `json:"title"`
	Reply            string     `json:"reply"`
	RecoveryPosition string     `json:"recoveryPosition"`
	Steps            string     `json:"steps"`
	Precautions      string     `json:"precautions"`
}

// classify sets Kind from the populated fields. A non-empty Reply wins; the
// structured fields are only consulted when there is no plain reply, matching
// how the platform renders answers.
func (a *Advice) classify() {
	if a.Reply != "" {
		a.Kind = AdvicePlain
		return
	}
	a.Kind = AdviceStructured
}

// Coordinates is a device-resolved position.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Conditions is the current-weather block of a weather response.
type Conditions struct {
	Location   string  `json:"location"`
	Temp       float64 `json:"temp"`
	Conditions string  `json:"conditions"`
	Windspeed  float64 `json:"windspeed"`
}

// ForecastDay is one entry of the multi-day forecast.
type ForecastDay struct {
	Date       string  `json:"date"`
	Temp       float64 `json:"temp"`
	Conditions string  `json:"conditions"`
}

// WeatherBundle is the full weather payload: current conditions plus an
// ordered forecast.
type WeatherBundle struct {
	Current  Conditions    `json:"current"`
	Forecast []ForecastDay `json:"forecast"`
}

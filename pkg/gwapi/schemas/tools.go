package schemas

type PreviewRequest struct {
	Body struct {
		URL string `json:"url,omitempty" doc:"Page to preview" example:"https://go.dev"`
	}
}

type PreviewImage struct {
	URL string `json:"url"`
}

type PreviewMeta struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Image       PreviewImage `json:"image"`
	URL         string       `json:"url"`
}

// PreviewBody follows the link tool contract of block editors:
// success is 1 or 0.
type PreviewBody struct {
	Success int          `json:"success" enum:"0,1"`
	Meta    *PreviewMeta `json:"meta,omitempty"`
	Error   string       `json:"error,omitempty"`
}

type PreviewResponse struct {
	Status int `json:"-"`
	Body   PreviewBody
}

type TimeRequest struct {
	Timezone string `query:"timezone" default:"UTC" doc:"IANA time zone name" example:"Asia/Tokyo"`
}

type TimeResponse struct {
	Body struct {
		Timezone  string `json:"timezone" example:"Asia/Tokyo"`
		Datetime  string `json:"datetime" example:"2025-01-01T09:00:00.000+09:00"`
		Date      string `json:"date" example:"2025-01-01"`
		Time      string `json:"time" example:"09:00:00+09:00"`
		Unix      int64  `json:"unix"`
		Offset    int    `json:"offset" doc:"UTC offset in minutes"`
		Time12Hr  string `json:"time_12hr" example:"09:00 AM"`
		Time24Hr  string `json:"time_24hr" example:"09:00"`
		DayOfWeek int    `json:"day_of_week" minimum:"1" maximum:"7" doc:"1 is Monday"`
		DayOfYear int    `json:"day_of_year"`
	}
}

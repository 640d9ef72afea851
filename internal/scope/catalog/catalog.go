// Package catalog holds the fixed list of services offered to clients.
package catalog

// Service is one catalog entry
type Service struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

var services = [...]Service{
	{
		ID:          "1",
		Title:       "Medical Evaluations",
		Description: "Occupational medical examinations to monitor the health of your workers.",
		Icon:        "clipboard-check",
	},
	{
		ID:          "2",
		Title:       "Occupational Exams",
		Description: "Specialized tests to detect workplace risks and occupational diseases.",
		Icon:        "stethoscope",
	},
	{
		ID:          "3",
		Title:       "Work Certificates",
		Description: "Issuance of work aptitude certificates to comply with regulations.",
		Icon:        "file-check",
	},
	{
		ID:          "4",
		Title:       "Online Platform",
		Description: "Consult and download certificates from our web portal.",
		Icon:        "monitor",
	},
	{
		ID:          "5",
		Title:       "Health Programs",
		Description: "Comprehensive health and wellness programs for your workforce.",
		Icon:        "heart-pulse",
	},
	{
		ID:          "6",
		Title:       "Safety Training",
		Description: "Training and education on workplace safety and health protocols.",
		Icon:        "graduation-cap",
	},
}

// Services returns a copy of the catalog
func Services() []Service {
	out := make([]Service, len(services))
	copy(out, services[:])
	return out
}

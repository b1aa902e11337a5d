package types

// Category represents service categories
type Category string

const (
	CategorySystem       Category = "system"
	CategoryReminder     Category = "reminder"
	CategoryNotification Category = "notification"
)

// Service describes a command target and the methods it accepts
type Service struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Category     Category `json:"category"`
	Capabilities []string `json:"capabilities"`
	Methods      []Method `json:"methods"`
}

// Method represents one callable method of a service
type Method struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
	Returns     string      `json:"returns"`
}

// Parameter represents a method parameter
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Method looks up a method by name
func (s Service) Method(name string) (Method, bool) {
	for _, m := range s.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return Method{}, false
}

package entity

type Event struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Category       string   `json:"category"`
	Price          int      `json:"price"`
	Rating         float64  `json:"rating"`
	Image          string   `json:"image"`
	Images         []string `json:"images,omitempty"`
	Date           string   `json:"date"`
	Time           string   `json:"time"`
	Location       string   `json:"location"`
	Capacity       int      `json:"capacity"`
	AvailableSlots int      `json:"availableSlots"`
	Services       []string `json:"services"`
	Organizer      string   `json:"organizer"`
	Featured       bool     `json:"featured,omitempty"`
}

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Color       string `json:"color"`
}

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Role      Role   `json:"role"`
	Avatar    string `json:"avatar,omitempty"`
	CreatedAt string `json:"createdAt"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password" validate:"required,min=6"`
	Role     Role   `json:"role" validate:"required,oneof=user admin"`
}

type SessionStatus string

const (
	SessionLoading         SessionStatus = "loading"
	SessionUnauthenticated SessionStatus = "unauthenticated"
	SessionAuthenticated   SessionStatus = "authenticated"
)

// Session is the identity currently held by the session store. User is nil
// whenever IsAuthenticated is false.
type Session struct {
	User            *User  `json:"user"`
	Token           string `json:"-"`
	IsAuthenticated bool   `json:"isAuthenticated"`
	Loading         bool   `json:"loading"`
}

func (s Session) Status() SessionStatus {
	switch {
	case s.Loading:
		return SessionLoading
	case s.IsAuthenticated:
		return SessionAuthenticated
	default:
		return SessionUnauthenticated
	}
}

package routes

var (
	// BearerAuth accepts either the Authorization header or the session cookie.
	BearerAuth = []map[string][]string{
		{"bearer": {}},
		{"cookie": {}},
	}
)

type Tag string

const (
	TagGeneral Tag = "general"
	TagAuth    Tag = "auth"
	TagOAuth   Tag = "oauth"
	TagUsers   Tag = "users"
	TagAdmin   Tag = "admin"
	TagTodos   Tag = "todos"
	TagTools   Tag = "tools"
)

func (t Tag) String() string { return string(t) }

func AllTags() []string {
	return []string{
		TagGeneral.String(),
		TagAuth.String(),
		TagOAuth.String(),
		TagUsers.String(),
		TagAdmin.String(),
		TagTodos.String(),
		TagTools.String(),
	}
}

package http

import (
	"fmt"
	"net/http"
	"reflect"

	"github.com/km-arc/go-injector/framework/container"
	"github.com/km-arc/go-injector/framework/routing"
)

// Entry is the JSON view of one registration.
type Entry struct {
	Index      int     `json:"index"`
	Service    string  `json:"service"`
	Target     string  `json:"target"`
	Lifetime   string  `json:"lifetime"`
	Cached     bool    `json:"cached"`
	ScopeToken *string `json:"scope_token"`
	Metadata   *string `json:"metadata"`
}

// NewEntry describes r, which sits at position index in the container.
func NewEntry(index int, r *container.Registration) Entry {
	e := Entry{
		Index:    index,
		Service:  typeName(r.ServiceType()),
		Target:   typeName(r.TargetType()),
		Lifetime: r.Lifetime().String(),
		Cached:   r.CachedInstance() != nil,
	}
	if tok := r.ScopeToken(); tok != nil {
		s := fmt.Sprint(tok)
		e.ScopeToken = &s
	}
	if m := r.Metadata(); m != nil {
		s := fmt.Sprint(m)
		e.Metadata = &s
	}
	return e
}

// Inspector serves a read-only view of a container's registrations.
//
//	GET /registrations[?lifetime=singleton]
//	GET /registrations/{index}
//	GET /healthz
type Inspector struct {
	container *container.Container
}

// NewInspector creates an Inspector over c.
func NewInspector(c *container.Container) *Inspector {
	return &Inspector{container: c}
}

// Routes mounts the inspector's handlers on r.
func (in *Inspector) Routes(r *routing.Router) {
	r.Get("/registrations", in.List)
	r.Get("/registrations/{index}", in.Show)
	r.Get("/healthz", in.Health)
}

// List writes every registration in registration order, optionally filtered
// by the lifetime query parameter.
func (in *Inspector) List(w http.ResponseWriter, r *http.Request) {
	req, res := NewRequest(r), NewResponse(w)

	var filter *container.Lifetime
	if name := req.Query("lifetime"); name != "" {
		l, err := container.ParseLifetime(name)
		if err != nil {
			res.Unprocessable(err.Error())
			return
		}
		filter = &l
	}

	entries := []Entry{}
	for i, reg := range in.container.Registrations() {
		if filter != nil && reg.Lifetime() != *filter {
			continue
		}
		entries = append(entries, NewEntry(i, reg))
	}
	res.Success(entries)
}

// Show writes the registration at the index route parameter.
func (in *Inspector) Show(w http.ResponseWriter, r *http.Request) {
	req, res := NewRequest(r), NewResponse(w)

	i, err := req.RouteInt("index")
	if err != nil {
		res.BadRequest(err.Error())
		return
	}

	regs := in.container.Registrations()
	if i < 0 || i >= len(regs) {
		res.NotFound(fmt.Sprintf("No registration at index %d.", i))
		return
	}
	res.Success(NewEntry(i, regs[i]))
}

// Health reports that the server is up.
func (in *Inspector) Health(w http.ResponseWriter, _ *http.Request) {
	NewResponse(w).Success(map[string]string{"status": "ok"})
}

func typeName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	return t.String()
}

// Package http provides JSON request and response helpers, the per-request
// scope middleware and the registration inspector.
//
// # Request
//
//	req := gohttp.NewRequest(r)
//	page := req.Query("page", "1")
//	id, err := req.RouteInt("index")
//	scopeID, ok := req.ScopeID()
//
// # Response
//
//	res := gohttp.NewResponse(w)
//	res.Success(data)             // 200 {"data": ...}
//	res.BadRequest()              // 400 {"message": "Bad Request."}
//	res.NotFound()                // 404 {"message": "Not found."}
//	res.Unprocessable("bad")      // 422 {"message": "bad"}
//	res.ServerError()             // 500 {"message": "Server Error."}
//
// # Scope middleware
//
//	router.Group(func(g *routing.Router) {
//	    g.Middleware(gohttp.Scope(tracker, c))
//	    g.Get("/orders", handler) // Scoped services live for the request
//	})
//
// # Inspector
//
//	gohttp.NewInspector(c).Routes(router)
//
//	GET /registrations                     {"data": [{"index": 0, "service": "*container.Container", ...}]}
//	GET /registrations?lifetime=scoped     422 on an unknown lifetime
//	GET /registrations/3                   400 on a non-integer, 404 out of range
//	GET /healthz                           {"data": {"status": "ok"}}
package http

package schemas

type HelloRequest struct {
	Name string `query:"name" doc:"Name to greet"`
}

type HelloResponse struct {
	Body struct {
		Message string `json:"message" example:"Hello from API" doc:"Welcome message"`
	}
}

type HealthResponse struct {
	Body struct {
		Status string `json:"status" example:"ok" doc:"Health status"`
	}
}

// Package docs serves a hand-maintained OpenAPI document for the HTTP API.
package docs

import (
	"net/http"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/transport/http/response"
)

type OpenAPISpec struct {
	OpenAPI    string              `json:"openapi"`
	Info       Info                `json:"info"`
	Paths      map[string]PathItem `json:"paths"`
	Components map[string]any      `json:"components"`
}

type Info struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Version     string `json:"version"`
}

// PathItem maps lower-case HTTP methods to operations.
type PathItem map[string]Operation

type Operation struct {
	Summary     string                `json:"summary"`
	OperationID string                `json:"operationId"`
	Tags        []string              `json:"tags"`
	Security    []map[string][]string `json:"security,omitempty"`
	Responses   map[string]Response   `json:"responses"`
}

type Response struct {
	Description string `json:"description"`
}

var bearer = []map[string][]string{{"BearerAuth": {}}}

func op(id, summary, tag string, secured bool, codes map[string]string) Operation {
	o := Operation{Summary: summary, OperationID: id, Tags: []string{tag}, Responses: map[string]Response{}}
	if secured {
		o.Security = bearer
		codes["401"] = "Access token required"
		codes["403"] = "Invalid or expired token"
	}
	for code, desc := range codes {
		o.Responses[code] = Response{Description: desc}
	}
	return o
}

// Spec builds the document for the given service version.
func Spec(version string) OpenAPISpec {
	return OpenAPISpec{
		OpenAPI: "3.0.3",
		Info: Info{
			Title:       "User Service API",
			Description: "Users and items behind bearer JWT authentication",
			Version:     version,
		},
		Paths: map[string]PathItem{
			"/health": {"get": op("health", "Health check", "Health", false, map[string]string{
				"200": "Service and database reachable", "503": "Database unreachable",
			})},
			"/auth/register": {"post": op("register", "Register a user", "Auth", false, map[string]string{
				"201": "User registered", "400": "Invalid input", "409": "Email already registered",
			})},
			"/auth/login": {"post": op("login", "Log in", "Auth", false, map[string]string{
				"200": "Login successful", "400": "Invalid input", "401": "Invalid email or password",
			})},
			"/users": {
				"get":  op("listUsers", "List users, newest first", "Users", true, map[string]string{"200": "Users"}),
				"post": op("createUser", "Create a user", "Users", true, map[string]string{
					"201": "User created", "400": "Invalid input", "409": "Email already registered",
				}),
			},
			"/users/{id}": {
				"get":    op("getUser", "Get a user", "Users", true, map[string]string{
					"200": "User", "400": "Invalid id", "404": "User not found",
				}),
				"put":    op("updateUser", "Partially update a user", "Users", true, map[string]string{
					"200": "User updated", "400": "Invalid input", "404": "User not found", "409": "Email already registered",
				}),
				"delete": op("deleteUser", "Delete a user", "Users", true, map[string]string{
					"200": "User deleted", "400": "Invalid id", "404": "User not found",
				}),
			},
			"/items": {
				"get":  op("listItems", "List items", "Items", true, map[string]string{"200": "Items"}),
				"post": op("createItem", "Create an item", "Items", true, map[string]string{"201": "Item created", "400": "Invalid input"}),
			},
		},
		Components: map[string]any{
			"securitySchemes": map[string]any{
				"BearerAuth": map[string]string{"type": "http", "scheme": "bearer", "bearerFormat": "JWT"},
			},
		},
	}
}

// Handler serves Spec(version) as JSON.
func Handler(version string) http.HandlerFunc {
	spec := Spec(version)
	return func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, spec)
	}
}

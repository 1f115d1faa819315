package doc

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swaggo/swag"
)

// Handler serves the generated swagger document and a browsable docs page.
type Handler struct {
	environment string
	publicURL   string
}

func (h *Handler) serveSwaggerJSON(c *gin.Context) {
	originalJSON, err := swag.ReadDoc()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read Swagger doc"})
		return
	}

	var swaggerData map[string]interface{}
	if err := json.Unmarshal([]byte(originalJSON), &swaggerData); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse Swagger doc"})
		return
	}

	swaggerData["servers"] = serversFor(h.environment, h.publicURL)

	components, _ := swaggerData["components"].(map[string]interface{})
	if components == nil {
		components = make(map[string]interface{})
		swaggerData["components"] = components
	}
	securitySchemes, _ := components["securitySchemes"].(map[string]interface{})
	if securitySchemes == nil {
		securitySchemes = make(map[string]interface{})
		components["securitySchemes"] = securitySchemes
	}
	securitySchemes["BearerAuth"] = map[string]interface{}{
		"type":         "http",
		"scheme":       "bearer",
		"bearerFormat": "PASETO",
		"description":  "Access token returned by /api/v1/users/login",
	}

	modifiedJSON, err := json.Marshal(swaggerData)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate modified Swagger doc"})
		return
	}

	c.Data(http.StatusOK, "application/json", modifiedJSON)
}

// serversFor lists the local server, plus the public one outside development.
func serversFor(environment, publicURL string) []map[string]interface{} {
	servers := []map[string]interface{}{
		{
			"url":         "http://localhost:8080",
			"description": "Local Development Server",
		},
	}

	if environment != "development" && publicURL != "" {
		servers = append(servers, map[string]interface{}{
			"url":         publicURL,
			"description": environment + " server",
		})
	}

	return servers
}

const elementsHTML = `
<!DOCTYPE html>
<html>
<head>
    <title>GlobeGuide API Documentation</title>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <script src="https://unpkg.com/@stoplight/elements/web-components.min.js"></script>
    <link rel="stylesheet" href="https://unpkg.com/@stoplight/elements/styles.min.css">
    <style>
        body { margin: 0; padding: 0; height: 100vh; }
        elements-api { height: 100%; }
    </style>
</head>
<body>
    <elements-api
        apiDescriptionUrl="/swagger/doc.json"
        router="hash"
        layout="sidebar"
        tryItCredentialsPolicy="include"
        hideInternal="false"
    ></elements-api>
</body>
</html>`

func serveElements(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(elementsHTML))
}

// Init mounts /swagger/doc.json and /docs. publicURL is advertised as an
// extra server outside development.
func Init(r *gin.Engine, environment, publicURL string) {
	h := &Handler{environment: environment, publicURL: publicURL}
	r.GET("/swagger/doc.json", h.serveSwaggerJSON)
	r.GET("/docs/*any", serveElements)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the catalog API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRouter) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(swaggerHTML))
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>toyfactory catalog - Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "toyfactory-catalog", "version": "v1.0.0" },
  "components": {
    "schemas": {
      "Project": {
        "type": "object",
        "properties": {
          "id": {"type":"integer","format":"int64"},
          "title": {"type":"string"},
          "description": {"type":"string"},
          "category": {"type":"string","enum":["app","game","image","video","etc"]},
          "tag": {"type":"string","nullable":true},
          "thumbnail": {"type":"string"},
          "url": {"type":"string"},
          "videoLength": {"type":"string","nullable":true},
          "createdAt": {"type":"string","format":"date-time"},
          "updatedAt": {"type":"string","format":"date-time","nullable":true}
        }
      },
      "Error": {
        "type": "object",
        "properties": { "message": {"type":"string"}, "error": {} }
      }
    }
  },
  "paths": {
    "/api/projects": {
      "get": {
        "summary": "List projects",
        "parameters": [
          {"name":"category","in":"query","schema":{"type":"string"}},
          {"name":"q","in":"query","schema":{"type":"string"}},
          {"name":"sort","in":"query","schema":{"type":"string","enum":["newest","oldest","az","za"]}}
        ],
        "responses": { "200": { "description": "projects" }, "400": { "description": "invalid sort" } }
      },
      "post": {
        "summary": "Create a project with an uploaded thumbnail",
        "requestBody": { "content": { "multipart/form-data": { "schema": {"type":"object","required":["title","description","category","url","thumbnail"],"properties":{"title":{"type":"string"},"description":{"type":"string"},"category":{"type":"string"},"tag":{"type":"string"},"url":{"type":"string"},"videoLength":{"type":"string"},"thumbnail":{"type":"string","format":"binary"}}}}}},
        "responses": { "201": { "description": "created" }, "400": { "description": "invalid data or file" }, "413": { "description": "file too large" }, "500": { "description": "storage failure" } }
      }
    },
    "/api/projects/{id}": {
      "get": { "summary": "Get a project", "responses": { "200": { "description": "project" }, "400": { "description": "invalid id" }, "404": { "description": "not found" } } },
      "patch": { "summary": "Partially update a project", "requestBody": { "content": { "application/json": { "schema": {"type":"object"} } } }, "responses": { "200": { "description": "updated" }, "400": { "description": "invalid data" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Delete a project", "responses": { "204": { "description": "deleted" }, "404": { "description": "not found" } } }
    },
    "/api/projects/category/{category}": {
      "get": { "summary": "List projects in one category", "responses": { "200": { "description": "projects" } } }
    },
    "/uploads/{name}": {
      "get": { "summary": "Fetch a stored asset", "responses": { "200": { "description": "asset bytes" }, "302": { "description": "presigned redirect" }, "404": { "description": "not found" } } }
    }
  }
}`

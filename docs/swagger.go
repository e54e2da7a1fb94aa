// Package docs holds the swagger document served at /swagger. The template
// below is the hand-maintained skeleton; regenerate the full path listing
// with `swag init -g cmd/server/main.go`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "termsOfService": "http://swagger.io/terms/",
        "contact": {
            "name": "API Support"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {},
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {
            "name": "Boards",
            "description": "Board management and membership operations"
        },
        {
            "name": "Lists",
            "description": "List ordering and lifecycle operations"
        },
        {
            "name": "Cards",
            "description": "Card management, movement and watcher operations"
        },
        {
            "name": "Labels",
            "description": "Label management operations"
        },
        {
            "name": "Comments",
            "description": "Card comment operations"
        },
        {
            "name": "Attachments",
            "description": "Card attachment operations"
        }
    ]
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Tasker API",
	Description:      "API for managing project boards, lists, cards, labels, comments and attachments",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

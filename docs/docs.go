// Package docs registers the OpenAPI document served at /api-docs.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Iniciar sesión",
                "parameters": [
                    {"description": "credenciales", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/auth.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/auth.LoginResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/apierr.Body"}}
                }
            }
        },
        "/activos": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Activos"],
                "summary": "Lista de activos",
                "parameters": [
                    {"type": "boolean", "description": "incluye activos dados de baja", "name": "mostrarBajas", "in": "query"},
                    {"type": "string", "description": "búsqueda por código, referencia, descripción, tipo o responsable", "name": "q", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/assets.Asset"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Activos"],
                "summary": "Crea un activo",
                "parameters": [
                    {"description": "activo", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/assets.AssetRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/assets.Asset"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apierr.Body"}}
                }
            }
        },
        "/activos/{id}/asignar": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Activos"],
                "summary": "Asigna un activo disponible a una persona",
                "parameters": [
                    {"type": "integer", "description": "id del activo", "name": "id", "in": "path", "required": true},
                    {"description": "asignación", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/assets.AssignRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/assets.TransitionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apierr.Body"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apierr.Body"}}
                }
            }
        },
        "/activos/export": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["Activos"],
                "summary": "Exporta los activos",
                "parameters": [
                    {"type": "string", "description": "csv (por defecto) o xlsx", "name": "formato", "in": "query"},
                    {"type": "string", "description": "utf8 (por defecto) o latin1, solo csv", "name": "charset", "in": "query"},
                    {"type": "boolean", "description": "incluye activos dados de baja", "name": "mostrarBajas", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/activos/import": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["Activos"],
                "summary": "Importa activos desde CSV",
                "parameters": [
                    {"type": "file", "description": "CSV con cabecera tipo,codigo,referencia,descripcion,marca,detalles,area,responsable,fechaRevision", "name": "archivo", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/assets.ImportResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apierr.Body"}}
                }
            }
        },
        "/historico": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Historico"],
                "summary": "Histórico de asignaciones",
                "parameters": [
                    {"type": "string", "description": "filtra por persona (subcadena)", "name": "persona", "in": "query"},
                    {"type": "boolean", "description": "solo asignaciones sin devolver", "name": "soloAbiertos", "in": "query"},
                    {"type": "string", "description": "AAAA-MM-DD", "name": "desde", "in": "query"},
                    {"type": "string", "description": "AAAA-MM-DD", "name": "hasta", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/ledger.Record"}}}
                }
            }
        },
        "/areas": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Areas"],
                "summary": "Áreas",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/areas.Area"}}}
                }
            }
        }
    },
    "definitions": {
        "apierr.Body": {
            "type": "object",
            "properties": {"error": {"type": "string"}, "code": {"type": "string"}}
        },
        "auth.LoginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {"username": {"type": "string"}, "password": {"type": "string"}}
        },
        "auth.LoginResponse": {
            "type": "object",
            "properties": {
                "usuario": {"type": "object", "properties": {"id": {"type": "integer"}, "username": {"type": "string"}, "rol": {"type": "string"}, "activo": {"type": "boolean"}}},
                "token": {"type": "string"}
            }
        },
        "areas.Area": {
            "type": "object",
            "properties": {"id": {"type": "integer"}, "codigo": {"type": "string"}, "nombre": {"type": "string"}}
        },
        "assets.Asset": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "tipoId": {"type": "integer"},
                "tipoNombre": {"type": "string"},
                "codigo": {"type": "string"},
                "referencia": {"type": "string"},
                "descripcion": {"type": "string"},
                "marca": {"type": "string"},
                "detalles": {"type": "string"},
                "area": {"type": "string"},
                "responsable": {"type": "string"},
                "fechaRevision": {"type": "string", "example": "2025-01-31"},
                "estado": {"type": "string", "enum": ["Disponible", "Asignado", "Baja"]},
                "motivoBaja": {"type": "string"}
            }
        },
        "assets.AssetRequest": {
            "type": "object",
            "required": ["tipoId", "referencia"],
            "properties": {
                "tipoId": {"type": "integer"},
                "codigo": {"type": "string"},
                "referencia": {"type": "string"},
                "descripcion": {"type": "string"},
                "marca": {"type": "string"},
                "detalles": {"type": "string"},
                "area": {"type": "string"},
                "responsable": {"type": "string"},
                "fechaRevision": {"type": "string", "example": "2025-01-31"}
            }
        },
        "assets.AssignRequest": {
            "type": "object",
            "properties": {
                "persona": {"type": "string"},
                "fechaDevolucionPrevista": {"type": "string", "example": "2025-03-20"}
            }
        },
        "assets.TransitionResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "activo": {"$ref": "#/definitions/assets.Asset"},
                "historico": {"$ref": "#/definitions/ledger.Record"}
            }
        },
        "assets.ImportResponse": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "creados": {"type": "integer"},
                "omitidos": {"type": "integer"},
                "errores": {"type": "integer"},
                "resultados": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "fila": {"type": "integer"},
                            "ok": {"type": "boolean"},
                            "omitido": {"type": "boolean"},
                            "error": {"type": "string"},
                            "id": {"type": "integer"},
                            "codigo": {"type": "string"}
                        }
                    }
                }
            }
        },
        "ledger.Record": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "ulid": {"type": "string"},
                "activoId": {"type": "integer"},
                "activoCodigo": {"type": "string"},
                "activoReferencia": {"type": "string"},
                "tipoNombre": {"type": "string"},
                "persona": {"type": "string"},
                "fechaAsignacion": {"type": "string"},
                "fechaDevolucionPrevista": {"type": "string"},
                "fechaDevolucion": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Gestión de Activos API",
	Description:      "Registro de activos, asignaciones y bajas.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

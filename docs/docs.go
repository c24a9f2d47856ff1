// Package docs регистрирует OpenAPI-описание Boundary Resolver API для swag.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/health": {
            "get": {
                "description": "Возвращает поколение слоёв и число загруженных объектов",
                "produces": ["application/json"],
                "tags": ["System"],
                "summary": "Состояние сервиса",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.HealthResponse"}}
                }
            }
        },
        "/api/v1/resolve": {
            "get": {
                "description": "Определяет муниципалитет, провинцию и регионы всех слоёв для точки",
                "produces": ["application/json"],
                "tags": ["Boundaries"],
                "summary": "Разрешение точки в регионы",
                "parameters": [
                    {"type": "number", "description": "Широта (-90..90)", "name": "lat", "in": "query", "required": true},
                    {"type": "number", "description": "Долгота (-180..180)", "name": "lon", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Resolution"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/layers": {
            "get": {
                "description": "Статистика загрузки по каждому слою",
                "produces": ["application/json"],
                "tags": ["Boundaries"],
                "summary": "Состояние слоёв",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.RegistryStats"}}
                }
            }
        },
        "/api/v1/check": {
            "post": {
                "description": "Геокодирует адрес (если не переданы координаты), разрешает точку и сохраняет проверку в историю",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Check"],
                "summary": "Проверка адреса",
                "parameters": [
                    {"description": "Адрес и необязательные координаты", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CheckRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.CheckResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/history": {
            "get": {
                "description": "Последние проверки, новые первыми",
                "produces": ["application/json"],
                "tags": ["Check"],
                "summary": "История проверок",
                "parameters": [
                    {"type": "integer", "default": 50, "description": "Количество записей (1..500)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.HistoryResponse"}}
                }
            }
        },
        "/api/v1/admin/reload": {
            "post": {
                "security": [{"AdminToken": []}],
                "description": "Перечитывает каталоги слоёв с диска",
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Перезагрузка слоёв",
                "parameters": [
                    {"type": "string", "default": "all", "description": "all, municipality, nsc, mpr, custom", "name": "which", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ReloadResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/admin/refresh-datasets": {
            "post": {
                "security": [{"AdminToken": []}],
                "description": "Скачивает слои из ArcGIS FeatureServer и перезагружает их",
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Обновление данных из ArcGIS",
                "parameters": [
                    {"type": "string", "default": "all", "description": "all, municipality, nsc, mpr, custom", "name": "which", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.RefreshResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.LayerMatch": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "matched": {"type": "boolean"},
                "name": {"type": "string"},
                "attributes": {"type": "object"},
                "reason": {"type": "string", "enum": ["empty_layer", "no_match"]},
                "detail": {"type": "string"}
            }
        },
        "domain.Resolution": {
            "type": "object",
            "properties": {
                "lat": {"type": "number"},
                "lon": {"type": "number"},
                "ok": {"type": "boolean"},
                "municipality": {"type": "string"},
                "province": {"type": "string"},
                "nsc_region": {"type": "string"},
                "mpr_region": {"type": "string"},
                "custom_region": {"type": "string"},
                "layers": {"type": "array", "items": {"$ref": "#/definitions/domain.LayerMatch"}},
                "missing": {"type": "array", "items": {"type": "string"}},
                "reason": {"type": "string"},
                "generation": {"type": "integer"}
            }
        },
        "domain.LayerStats": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "dir": {"type": "string"},
                "files_seen": {"type": "integer"},
                "files_loaded": {"type": "integer"},
                "features_loaded": {"type": "integer"},
                "features_dropped": {"type": "integer"},
                "features_repaired": {"type": "integer"},
                "loaded_at": {"type": "string"},
                "duration_ms": {"type": "integer"},
                "generation": {"type": "integer"}
            }
        },
        "domain.RegistryStats": {
            "type": "object",
            "properties": {
                "generation": {"type": "integer"},
                "total_features": {"type": "integer"},
                "layers": {"type": "array", "items": {"$ref": "#/definitions/domain.LayerStats"}}
            }
        },
        "domain.FetchResult": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "url": {"type": "string"},
                "path": {"type": "string"},
                "format": {"type": "string", "enum": ["geojson", "esrijson"]},
                "features": {"type": "integer"},
                "error": {"type": "string"}
            }
        },
        "domain.CheckLog": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "request_id": {"type": "string"},
                "created_at": {"type": "string"},
                "address": {"type": "string"},
                "normalized_address": {"type": "string"},
                "lat": {"type": "number"},
                "lon": {"type": "number"},
                "municipality": {"type": "string"},
                "province": {"type": "string"},
                "confidence": {"type": "number"},
                "ok": {"type": "boolean"},
                "reason": {"type": "string"}
            }
        },
        "dto.CheckRequest": {
            "type": "object",
            "required": ["address"],
            "properties": {
                "address": {"type": "string", "maxLength": 500},
                "country": {"type": "string"},
                "lat": {"type": "number"},
                "lon": {"type": "number"}
            }
        },
        "dto.CheckResponse": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean"},
                "input_address": {"type": "string"},
                "normalized_address": {"type": "string"},
                "lat": {"type": "number"},
                "lon": {"type": "number"},
                "municipality": {"type": "string"},
                "province": {"type": "string"},
                "nsc_region": {"type": "string"},
                "mpr_region": {"type": "string"},
                "custom_region": {"type": "string"},
                "confidence": {"type": "number"},
                "reason": {"type": "string"},
                "layers": {"type": "array", "items": {"$ref": "#/definitions/domain.LayerMatch"}}
            }
        },
        "dto.HealthResponse": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean"},
                "generation": {"type": "integer"},
                "total_features": {"type": "integer"}
            }
        },
        "dto.HistoryResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/domain.CheckLog"}},
                "total": {"type": "integer"}
            }
        },
        "dto.ReloadResponse": {
            "type": "object",
            "properties": {
                "generation": {"type": "integer"},
                "layers": {"type": "array", "items": {"$ref": "#/definitions/domain.LayerStats"}}
            }
        },
        "dto.RefreshResponse": {
            "type": "object",
            "properties": {
                "fetched": {"type": "array", "items": {"$ref": "#/definitions/domain.FetchResult"}},
                "generation": {"type": "integer"},
                "layers": {"type": "array", "items": {"$ref": "#/definitions/domain.LayerStats"}}
            }
        },
        "utils.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "object",
                    "properties": {
                        "code": {"type": "string"},
                        "message": {"type": "string"},
                        "details": {"type": "object"}
                    }
                }
            }
        }
    },
    "securityDefinitions": {
        "AdminToken": {"type": "apiKey", "name": "X-Admin-Token", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Boundary Resolver API",
	Description:      "Определение муниципалитета, провинции и планировочных регионов по координатам или адресу.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

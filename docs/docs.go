// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

// Package docs registers the Swagger document served at /swagger/doc.json.
// It mirrors the swag annotations on the handlers in internal/api and must be
// updated alongside them.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
	"schemes": {{ marshal .Schemes }},
	"swagger": "2.0",
	"info": {
		"description": "{{escape .Description}}",
		"title": "{{.Title}}",
		"contact": {
			"name": "GitHub Repository",
			"url": "https://github.com/tomtom215/sonograph/issues"
		},
		"license": {
			"name": "AGPL-3.0-or-later",
			"url": "https://www.gnu.org/licenses/agpl-3.0.html"
		},
		"version": "{{.Version}}"
	},
	"host": "{{.Host}}",
	"basePath": "{{.BasePath}}",
	"paths": {
		"/graph": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"Graph"
				],
				"summary": "Build artist similarity graph (query form)",
				"parameters": [
					{
						"type": "string",
						"description": "Artist name or profile URL",
						"name": "artist",
						"in": "query",
						"required": true
					},
					{
						"type": "integer",
						"description": "Hop depth (1 or 2)",
						"name": "depth",
						"in": "query",
						"default": 1
					},
					{
						"type": "integer",
						"description": "Hop-1 fan-out (5-50)",
						"name": "limit",
						"in": "query",
						"default": 25
					}
				],
				"responses": {
					"200": {
						"description": "Graph built",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/models.APIResponse"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/models.Graph"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Invalid input",
						"schema": {
							"$ref": "#/definitions/models.APIResponse"
						}
					},
					"404": {
						"description": "Artist not found",
						"schema": {
							"$ref": "#/definitions/models.APIResponse"
						}
					},
					"429": {
						"description": "Upstream rate limited",
						"schema": {
							"$ref": "#/definitions/models.APIResponse"
						}
					},
					"500": {
						"description": "Upstream or internal error",
						"schema": {
							"$ref": "#/definitions/models.APIResponse"
						}
					}
				}
			},
			"post": {
				"description": "Expands a root artist into a graph of similar artists, one or two hops deep. Input may be an artist name or a Last.fm profile URL.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Graph"
				],
				"summary": "Build artist similarity graph",
				"parameters": [
					{
						"description": "Graph request",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/api.GraphRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "Graph built",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/models.APIResponse"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/models.Graph"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Invalid input",
						"schema": {
							"$ref": "#/definitions/models.APIResponse"
						}
					},
					"404": {
						"description": "Artist not found",
						"schema": {
							"$ref": "#/definitions/models.APIResponse"
						}
					},
					"429": {
						"description": "Upstream rate limited",
						"schema": {
							"$ref": "#/definitions/models.APIResponse"
						}
					},
					"500": {
						"description": "Upstream or internal error",
						"schema": {
							"$ref": "#/definitions/models.APIResponse"
						}
					}
				}
			}
		},
		"/graph/expand": {
			"post": {
				"description": "Returns the artist's similar artists as nodes and edges for the client to merge into the graph it holds. The artist itself is not repeated.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Graph"
				],
				"summary": "Expand a graph node",
				"parameters": [
					{
						"description": "Expand request",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/api.ExpandRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "Node expanded",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/models.APIResponse"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/models.Expansion"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Invalid input",
						"schema": {
							"$ref": "#/definitions/models.APIResponse"
						}
					},
					"404": {
						"description": "Artist not found",
						"schema": {
							"$ref": "#/definitions/models.APIResponse"
						}
					},
					"429": {
						"description": "Upstream rate limited",
						"schema": {
							"$ref": "#/definitions/models.APIResponse"
						}
					},
					"500": {
						"description": "Upstream or internal error",
						"schema": {
							"$ref": "#/definitions/models.APIResponse"
						}
					}
				}
			}
		},
		"/export/csv": {
			"get": {
				"produces": [
					"text/csv"
				],
				"tags": [
					"Export"
				],
				"summary": "Export a fresh graph as CSV",
				"parameters": [
					{
						"type": "string",
						"description": "Artist name or profile URL",
						"name": "root",
						"in": "query",
						"required": true
					},
					{
						"type": "integer",
						"description": "Hop depth (1 or 2)",
						"name": "depth",
						"in": "query",
						"default": 1
					},
					{
						"type": "integer",
						"description": "Hop-1 fan-out (5-50)",
						"name": "limit",
						"in": "query",
						"default": 25
					}
				],
				"responses": {
					"200": {
						"description": "CSV attachment",
						"schema": {
							"type": "file"
						}
					},
					"400": {
						"description": "Invalid input",
						"schema": {
							"$ref": "#/definitions/models.APIResponse"
						}
					},
					"404": {
						"description": "Artist not found",
						"schema": {
							"$ref": "#/definitions/models.APIResponse"
						}
					},
					"429": {
						"description": "Upstream rate limited",
						"schema": {
							"$ref": "#/definitions/models.APIResponse"
						}
					},
					"500": {
						"description": "Upstream or internal error",
						"schema": {
							"$ref": "#/definitions/models.APIResponse"
						}
					}
				}
			},
			"post": {
				"consumes": [
					"application/json"
				],
				"produces": [
					"text/csv"
				],
				"tags": [
					"Export"
				],
				"summary": "Export a posted graph as CSV",
				"parameters": [
					{
						"description": "Graph nodes and edges",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/api.ExportRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "CSV attachment",
						"schema": {
							"type": "file"
						}
					},
					"400": {
						"description": "Malformed body or no root artist",
						"schema": {
							"$ref": "#/definitions/models.APIResponse"
						}
					}
				}
			}
		},
		"/playlists": {
			"post": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"description": "Creates a playlist for the owner of the bearer token and adds the tracks in batches. The token is forwarded as-is and never stored.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Playlists"
				],
				"summary": "Create a playlist",
				"parameters": [
					{
						"description": "Playlist",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/api.PlaylistRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Playlist created",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/models.APIResponse"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/playlist.Result"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Invalid input or track id",
						"schema": {
							"$ref": "#/definitions/models.APIResponse"
						}
					},
					"401": {
						"description": "Missing or rejected token",
						"schema": {
							"$ref": "#/definitions/models.APIResponse"
						}
					},
					"429": {
						"description": "Playlist service rate limited",
						"schema": {
							"$ref": "#/definitions/models.APIResponse"
						}
					},
					"500": {
						"description": "Playlist service error",
						"schema": {
							"$ref": "#/definitions/models.APIResponse"
						}
					},
					"503": {
						"description": "Playlists disabled",
						"schema": {
							"$ref": "#/definitions/models.APIResponse"
						}
					}
				}
			}
		},
		"/health/live": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"Core"
				],
				"summary": "Liveness probe",
				"responses": {
					"200": {
						"description": "Service is alive",
						"schema": {
							"$ref": "#/definitions/models.APIResponse"
						}
					}
				}
			}
		},
		"/health/ready": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"Core"
				],
				"summary": "Readiness probe",
				"responses": {
					"200": {
						"description": "Service is ready",
						"schema": {
							"$ref": "#/definitions/models.APIResponse"
						}
					},
					"503": {
						"description": "Service is not ready",
						"schema": {
							"$ref": "#/definitions/models.APIResponse"
						}
					}
				}
			}
		}
	},
	"definitions": {
		"api.GraphRequest": {
			"type": "object",
			"properties": {
				"input": {
					"type": "string",
					"example": "Radiohead"
				},
				"depth": {
					"type": "integer",
					"example": 1
				},
				"limit": {
					"type": "integer",
					"example": 25
				}
			}
		},
		"api.ExpandRequest": {
			"type": "object",
			"properties": {
				"artistName": {
					"type": "string",
					"example": "Portishead"
				},
				"limit": {
					"type": "integer",
					"example": 10
				}
			}
		},
		"api.ExportRequest": {
			"type": "object",
			"properties": {
				"nodes": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/models.GraphNode"
					}
				},
				"edges": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/models.GraphEdge"
					}
				}
			}
		},
		"api.PlaylistRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string",
					"example": "Sounds like Radiohead"
				},
				"description": {
					"type": "string"
				},
				"public": {
					"type": "boolean"
				},
				"trackIds": {
					"type": "array",
					"items": {
						"type": "string"
					}
				}
			}
		},
		"models.APIError": {
			"type": "object",
			"properties": {
				"code": {
					"type": "string"
				},
				"message": {
					"type": "string"
				},
				"details": {
					"type": "object",
					"additionalProperties": true
				}
			}
		},
		"models.APIResponse": {
			"type": "object",
			"properties": {
				"status": {
					"type": "string"
				},
				"data": {},
				"metadata": {
					"$ref": "#/definitions/models.Metadata"
				},
				"error": {
					"$ref": "#/definitions/models.APIError"
				}
			}
		},
		"models.Metadata": {
			"type": "object",
			"properties": {
				"timestamp": {
					"type": "string"
				},
				"request_id": {
					"type": "string"
				},
				"query_time_ms": {
					"type": "integer"
				}
			}
		},
		"models.GraphNode": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"name": {
					"type": "string"
				},
				"listeners": {
					"type": "integer"
				},
				"playCount": {
					"type": "integer"
				},
				"tags": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"primaryGenre": {
					"type": "string"
				},
				"imageUrl": {
					"type": "string"
				},
				"profileUrl": {
					"type": "string"
				},
				"bio": {
					"type": "string"
				},
				"hopLevel": {
					"type": "integer"
				},
				"isRoot": {
					"type": "boolean"
				},
				"displaySize": {
					"type": "number"
				}
			}
		},
		"models.GraphEdge": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"source": {
					"type": "string"
				},
				"target": {
					"type": "string"
				},
				"similarity": {
					"type": "number"
				},
				"kind": {
					"type": "string"
				}
			}
		},
		"models.GraphStats": {
			"type": "object",
			"properties": {
				"totalNodes": {
					"type": "integer"
				},
				"totalEdges": {
					"type": "integer"
				},
				"rootArtist": {
					"type": "string"
				},
				"hopOneNodes": {
					"type": "integer"
				},
				"hopTwoNodes": {
					"type": "integer"
				},
				"failedLookups": {
					"type": "integer"
				},
				"durationMs": {
					"type": "integer"
				}
			}
		},
		"models.Graph": {
			"type": "object",
			"properties": {
				"rootArtist": {
					"type": "string"
				},
				"depth": {
					"type": "integer"
				},
				"limit": {
					"type": "integer"
				},
				"nodes": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/models.GraphNode"
					}
				},
				"edges": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/models.GraphEdge"
					}
				},
				"stats": {
					"$ref": "#/definitions/models.GraphStats"
				}
			}
		},
		"models.Expansion": {
			"type": "object",
			"properties": {
				"artist": {
					"type": "string"
				},
				"nodes": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/models.GraphNode"
					}
				},
				"edges": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/models.GraphEdge"
					}
				}
			}
		},
		"playlist.Result": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"url": {
					"type": "string"
				},
				"tracksAdded": {
					"type": "integer"
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"description": "Streaming service access token, forwarded as-is to the playlist service.",
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:		  "1.0",
	Host:			 "localhost:3001",
	BasePath:		 "/api/v1",
	Schemes:		  []string{"http", "https"},
	Title:			"Sonograph API",
	Description:	  "Artist similarity graphs built from Last.fm data.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:		"{{",
	RightDelim:	   "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

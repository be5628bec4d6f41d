package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
)

// queryParams 各路由必填的查询参数
var queryParams = map[string][]string{
	"/guild/send_party/:guild_id":        {"dungeon_name"},
	"/dungeon/collect_bounty/:guild_id":  {"dungeon_id"},
	"/dungeon/assess_damage/:dungeon_id": {"guild_id"},
	"/hero/attack_monster/:hero_id":      {"monster_id"},
	"/hero/accept_request/:hero_id":      {"guild_name"},
	"/monster/attack_hero/:monster_id":   {"hero_id"},
}

// publicPaths 不需要API Key的路径
var publicPaths = map[string]bool{
	"/":             true,
	"/health":       true,
	"/metrics":      true,
	"/openapi":      true,
	"/docs/redoc":   true,
	"/swagger/*any": true,
}

// registerOpenAPIRoutes 提供 /openapi 与 /docs/redoc
func registerOpenAPIRoutes(engine *gin.Engine) {
	engine.GET("/openapi", func(c *gin.Context) {
		c.JSON(http.StatusOK, buildOpenAPI(engine.Routes()))
	})
	engine.GET("/docs/redoc", serveRedoc)
}

// buildOpenAPI 根据路由表生成 OpenAPI 3 文档
func buildOpenAPI(routes gin.RoutesInfo) gin.H {
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})

	paths := gin.H{}
	for _, rt := range routes {
		if strings.HasPrefix(rt.Path, "/swagger") || rt.Path == "/openapi" {
			continue
		}
		key := openAPIPath(rt.Path)
		item, ok := paths[key].(gin.H)
		if !ok {
			item = gin.H{}
			paths[key] = item
		}
		item[strings.ToLower(rt.Method)] = operation(rt)
	}

	return gin.H{
		"openapi": "3.0.3",
		"info": gin.H{
			"title":   "Arthur's Last Crusade",
			"version": "1.0.0",
		},
		"paths": paths,
		"components": gin.H{
			"securitySchemes": gin.H{
				"APIKey": gin.H{
					"type": "apiKey",
					"in":   "header",
					"name": "access_token",
				},
			},
		},
	}
}

func operation(rt gin.RouteInfo) gin.H {
	segments := strings.Split(strings.Trim(rt.Path, "/"), "/")

	var params []gin.H
	for _, seg := range segments {
		if strings.HasPrefix(seg, ":") {
			params = append(params, gin.H{
				"name":     seg[1:],
				"in":       "path",
				"required": true,
				"schema":   gin.H{"type": "integer"},
			})
		}
	}
	for _, name := range queryParams[rt.Path] {
		typ := "integer"
		if strings.HasSuffix(name, "_name") {
			typ = "string"
		}
		params = append(params, gin.H{
			"name":     name,
			"in":       "query",
			"required": true,
			"schema":   gin.H{"type": typ},
		})
	}

	op := gin.H{
		"operationId": strings.ToLower(rt.Method) + "_" + strings.Join(nonParams(segments), "_"),
		"responses": gin.H{
			"200": gin.H{"description": "成功"},
		},
	}
	if len(segments) > 1 {
		op["tags"] = []string{segments[0]}
	}
	if len(params) > 0 {
		op["parameters"] = params
	}
	if !publicPaths[rt.Path] {
		op["security"] = []gin.H{{"APIKey": []string{}}}
		responses := op["responses"].(gin.H)
		responses["401"] = gin.H{"description": "API Key无效"}
		responses["409"] = gin.H{"description": "业务条件不满足"}
		responses["422"] = gin.H{"description": "参数错误"}
	}
	return op
}

func nonParams(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg != "" && !strings.HasPrefix(seg, ":") {
			out = append(out, seg)
		}
	}
	if len(out) == 0 {
		out = append(out, "root")
	}
	return out
}

// openAPIPath 将 :id 形式的参数转为 {id}
func openAPIPath(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if strings.HasPrefix(seg, ":") {
			segments[i] = "{" + seg[1:] + "}"
		}
	}
	return strings.Join(segments, "/")
}

func serveRedoc(c *gin.Context) {
	html := `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>Arthur's Last Crusade - Redoc</title>
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <style>body{margin:0;padding:0}</style>
  </head>
  <body>
    <redoc spec-url="/openapi"></redoc>
    <script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
  </body>
</html>`
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

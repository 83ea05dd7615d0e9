package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"wordma/pkg/services"
)

// commandFunc decodes its own arguments and returns a JSON-serializable result.
type commandFunc func(args json.RawMessage) (interface{}, error)

// commands is the surface the front-end reaches through POST /invoke/:command.
var commands = map[string]commandFunc{
	"greet": func(args json.RawMessage) (interface{}, error) {
		var in struct {
			Name string `json:"name"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		return services.Greet(in.Name), nil
	},
	"is_dir_empty": func(args json.RawMessage) (interface{}, error) {
		var in struct {
			Path string `json:"path"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		return services.IsDirEmpty(in.Path)
	},
	"compile_mdx": func(args json.RawMessage) (interface{}, error) {
		var in struct {
			Content string `json:"content"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		return services.CompileMDX(in.Content)
	},
}

func decodeArgs(args json.RawMessage, dst interface{}) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, dst); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// Invoke runs a named command. Errors come back as plain strings.
func Invoke(c *gin.Context) {
	name := c.Param("command")
	cmd, ok := commands[name]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown command: " + name})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	result, err := cmd(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

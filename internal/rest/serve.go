// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mlnoga/hazenoise/internal/config"
	"github.com/mlnoga/hazenoise/internal/job"
	"github.com/mlnoga/hazenoise/internal/ops"
	"github.com/mlnoga/hazenoise/internal/rng"
)

// Serves the REST API on the given address until the listener fails
func Serve(addr string) error {
	return NewRouter().Run(addr)
}

// Returns the router with all API routes
func NewRouter() *gin.Engine {
	r := gin.Default()
	api := r.Group("/api")
	{
		v1 := api.Group("/v1")
		{
			v1.GET("/ping", getPing)
			v1.POST("/degrade", postDegrade)
		}
	}
	return r
}

func getPing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
	})
}

// Returns true if a path is considered safe, i.e. not an absolute path,
// and doesn't contain the ".." characters to change to a parent directory
func isPathAllowed(p string) bool {
	if filepath.IsAbs(p) {
		return false
	}
	if strings.Contains(p, "..") {
		return false
	}
	return true
}

func printArgs(logWriter io.Writer, prefix, suffix string, args interface{}) error {
	m, err := json.MarshalIndent(args, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(logWriter, "%s%s%s", prefix, string(m), suffix)
	return nil
}

type degradeResponse struct {
	job.Result
	Log string `json:"log"`
}

func postDegrade(c *gin.Context) {
	cfg := config.Default()
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !isPathAllowed(cfg.InputPath) || !isPathAllowed(cfg.OutputDir) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path outside current directory tree"})
		return
	}

	var logWriter bytes.Buffer
	if err := printArgs(&logWriter, "Arguments:\n", "\n", cfg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	res, err := job.Run(cfg, ops.NewContext(&logWriter, rng.New(job.SeedFor(cfg))))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ops.ErrConfiguration) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error(), "log": logWriter.String()})
		return
	}
	c.JSON(http.StatusOK, degradeResponse{Result: *res, Log: logWriter.String()})
}

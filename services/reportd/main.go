// Copyright (C) 2026 Cedar Institutional Research Group
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cedar-ir/cedar/services/anomaly"
	"github.com/cedar-ir/cedar/services/anomaly/enrollment"
	"github.com/cedar-ir/cedar/services/anomaly/ingest"
	"github.com/cedar-ir/cedar/services/anomaly/thresholds"
)

// Server holds the report service dependencies.
type Server struct {
	Engine     *anomaly.Engine
	Enrollment []enrollment.Row
	Sections   []enrollment.Section
}

// AnomalyRequest is the POST /api/v1/anomalies body.
type AnomalyRequest struct {
	Filter     anomaly.Filter        `json:"filter"`
	Thresholds *thresholds.Overrides `json:"thresholds,omitempty"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Data locations from environment.
var (
	enrollmentCSV = os.Getenv("CEDAR_ENROLLMENT_CSV")
	sectionsCSV   = os.Getenv("CEDAR_SECTIONS_CSV")
	cacheDir      = os.Getenv("CEDAR_CACHE_DIR")
	listenAddr    = os.Getenv("CEDAR_LISTEN_ADDR")
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if enrollmentCSV == "" {
		enrollmentCSV = "data/enrollment.csv"
	}
	if sectionsCSV == "" {
		sectionsCSV = "data/sections.csv"
	}
	if cacheDir == "" {
		cacheDir = "cache/anomaly"
	}
	if listenAddr == "" {
		listenAddr = ":8085"
	}

	slog.Info("Starting Cedar report service",
		"enrollment_csv", enrollmentCSV,
		"sections_csv", sectionsCSV,
		"cache_dir", cacheDir)

	rows, err := ingest.LoadEnrollmentFile(enrollmentCSV)
	if err != nil {
		slog.Error("failed to load enrollment table", "error", err.Error())
		os.Exit(1)
	}
	sections, err := loadSections(sectionsCSV)
	if err != nil {
		slog.Error("failed to load sections table", "error", err.Error())
		os.Exit(1)
	}

	server := &Server{
		Engine: anomaly.New(anomaly.Config{
			CacheDir: cacheDir,
			CacheTTL: 24 * time.Hour,
		}, logger),
		Enrollment: rows,
		Sections:   sections,
	}

	router := server.Router()
	slog.Info("listening", "addr", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		slog.Error("server stopped", "error", err.Error())
		os.Exit(1)
	}
}

// loadSections loads the optional availability table. A missing file
// degrades to running without it; any other error (unreadable file,
// schema violation) is fatal, matching the CLI.
func loadSections(path string) ([]enrollment.Section, error) {
	sections, err := ingest.LoadSectionsFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Warn("sections table not found, waitlist/squeeze analysis degraded",
				"path", path)
			return nil, nil
		}
		return nil, err
	}
	return sections, nil
}

// Router builds the gin router. Split out for handler tests.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", s.handleHealth)
	router.POST("/api/v1/anomalies", s.handleAnomalies)
	return router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"enrollment_rows": len(s.Enrollment),
		"section_rows":    len(s.Sections),
	})
}

// handleAnomalies runs the engine for the requested filter set. Cache
// behavior follows the engine: default-threshold requests may be
// served from cache, overridden ones always recompute.
func (s *Server) handleAnomalies(c *gin.Context) {
	var req AnomalyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	started := time.Now()
	bundle, err := s.Engine.Run(c.Request.Context(), anomaly.Inputs{
		Enrollment: s.Enrollment,
		Sections:   s.Sections,
	}, req.Filter, req.Thresholds)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	slog.Info("anomaly request served",
		"cached", bundle.Provenance.Cached,
		"flagged_courses", len(bundle.AllFlaggedCourses),
		"elapsed_ms", time.Since(started).Milliseconds())
	c.JSON(http.StatusOK, bundle)
}

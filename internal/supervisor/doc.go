// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

/*
Package supervisor runs Sonograph's long-lived services under a suture v4 tree.

The tree isolates failures by layer:

	RootSupervisor ("sonograph")
	├── UpstreamSupervisor ("upstream-layer")
	│   └── request gate drain loop
	├── APISupervisor ("api-layer")
	│   └── HTTPServerService
	└── MaintenanceSupervisor ("maintenance-layer")
	    └── CacheMaintenanceService

A crashed service is restarted with backoff. The gate consumer crashing does
not take the HTTP server down; requests queued at that moment receive
gate.ErrStopped and the next Serve picks up new work.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddUpstreamService(g)
	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout))
	tree.AddMaintenanceService(services.NewCacheMaintenanceService(c, cfg.Cache.MaintenanceInterval))
	err = tree.Serve(ctx)

Supervisor events (start, stop, restart, backoff) are logged through the
sutureslog hook, which writes into the zerolog pipeline via logging.SlogHandler.
*/
package supervisor

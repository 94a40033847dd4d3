package host

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/icverimeter/svdb/boundary"
	"github.com/icverimeter/svdb/logging"
)

// Run executes a simulation guest to completion: it creates a runtime,
// registers WASI and the svdb host module, instantiates the guest with its
// _initialize start function and calls its exported "run" function. The
// returned status is whatever "run" reports. Every call is synchronous and
// runs on the caller's goroutine.
func Run(ctx context.Context, wasmBytes []byte, adapter *boundary.Adapter, logger logging.Logger, config wazero.ModuleConfig) (int32, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	if config == nil {
		config = wazero.NewModuleConfig()
	}
	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	wasi_snapshot_preview1.MustInstantiate(ctx, r)

	h := New(adapter, logger)
	if err := h.Instantiate(ctx, r); err != nil {
		return 0, err
	}

	mod, err := r.InstantiateWithConfig(ctx, wasmBytes,
		config.WithStartFunctions("_initialize"))
	if err != nil {
		return 0, fmt.Errorf("instantiate guest: %w", err)
	}

	runFn := mod.ExportedFunction("run")
	if runFn == nil {
		return 0, fmt.Errorf("guest does not export a run function")
	}
	logger.Info("running guest")
	results, err := runFn.Call(ctx)
	if err != nil {
		return 0, fmt.Errorf("guest run failed: %w", err)
	}
	if len(results) != 1 {
		return 0, fmt.Errorf("guest run returned %d results, expected 1", len(results))
	}
	status := int32(results[0])
	logger.Info("guest finished with status %d", status)
	return status, nil
}

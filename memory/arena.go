package memory

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/ffi-layout/errors"
	"github.com/wippyai/ffi-layout/internal/abi"
)

// Config holds arena configuration.
type Config struct {
	// Pages is the initial memory size in 64KB pages. 0 means 1.
	Pages uint32

	// MaxPages caps growth. 0 means the 32-bit limit (65536 pages = 4GB).
	MaxPages uint32
}

// Arena is a bump allocator over one wazero linear memory.
// It is safe for concurrent use.
type Arena struct {
	runtime wazero.Runtime
	module  api.Module
	mem     *linear
	mu      sync.Mutex
	next    uint32
	max     uint32
	closed  bool
}

// NewArena instantiates a memory-only module and returns an arena over its
// exported memory.
func NewArena(ctx context.Context, cfg Config) (*Arena, error) {
	pages := cfg.Pages
	if pages == 0 {
		pages = 1
	}
	maxPages := cfg.MaxPages
	if maxPages == 0 {
		maxPages = MaxPages
	}
	if pages > maxPages {
		return nil, errors.New(errors.PhaseMemory, errors.KindInvalidInput).
			Detail("initial pages %d exceed max %d", pages, maxPages).
			Build()
	}

	runtimeCfg := wazero.NewRuntimeConfig().WithMemoryLimitPages(maxPages)
	rt := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	mod, err := rt.Instantiate(ctx, memoryModule(pages, cfg.MaxPages))
	if err != nil {
		return nil, multierr.Append(
			errors.Wrap(errors.PhaseMemory, errors.KindAllocation, err, "instantiate memory module"),
			rt.Close(ctx),
		)
	}
	mem := mod.ExportedMemory(exportName)
	if mem == nil {
		return nil, multierr.Append(
			errors.NotInitialized(errors.PhaseMemory, "exported memory"),
			rt.Close(ctx),
		)
	}

	Logger().Debug("arena created",
		zap.Uint32("pages", pages),
		zap.Uint32("max_pages", maxPages))

	return &Arena{
		runtime: rt,
		module:  mod,
		mem:     &linear{mem: mem},
		max:     maxPages,
	}, nil
}

// Memory returns the arena's linear memory.
func (a *Arena) Memory() Memory {
	return a.mem
}

// Alloc reserves size bytes aligned to align and returns the block's offset.
// Memory grows by whole pages as needed. Offset 0 is never returned so a zero
// pointer stays distinguishable from a block.
func (a *Arena) Alloc(size, align uint32) (uint32, error) {
	if align == 0 {
		align = 1
	}
	if !abi.IsPowerOfTwo(align) {
		return 0, errors.New(errors.PhaseMemory, errors.KindInvalidInput).
			Value(align).
			Detail("alignment %d is not a power of two", align).
			Build()
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return 0, errors.NotInitialized(errors.PhaseMemory, "arena")
	}

	next := a.next
	if next == 0 {
		next = 1
	}
	ptr, ok := abi.SafeAlignTo(next, align)
	if !ok {
		return 0, errors.AllocationFailed(errors.PhaseMemory, size, align)
	}
	end, ok := abi.SafeAddU32(ptr, size)
	if !ok {
		return 0, errors.AllocationFailed(errors.PhaseMemory, size, align)
	}
	if err := a.grow(end, size, align); err != nil {
		return 0, err
	}
	a.next = end

	Logger().Debug("alloc",
		zap.Uint32("ptr", ptr),
		zap.Uint32("size", size),
		zap.Uint32("align", align))
	return ptr, nil
}

// grow makes sure at least end bytes are addressable.
func (a *Arena) grow(end, size, align uint32) error {
	cur := a.mem.Size()
	if end <= cur {
		return nil
	}
	need := (uint64(end) - uint64(cur) + PageSize - 1) / PageSize
	if uint64(cur)/PageSize+need > uint64(a.max) {
		return errors.AllocationFailed(errors.PhaseMemory, size, align)
	}
	if _, ok := a.mem.mem.Grow(uint32(need)); !ok {
		return errors.AllocationFailed(errors.PhaseMemory, size, align)
	}
	return nil
}

// Used returns the number of bytes handed out so far, padding included.
func (a *Arena) Used() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.next
}

// Reset discards every allocation. Existing records must not be used after.
func (a *Arena) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.next = 0
}

// Close releases the runtime. Closing twice is a no-op.
func (a *Arena) Close(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true

	return multierr.Append(a.module.Close(ctx), a.runtime.Close(ctx))
}

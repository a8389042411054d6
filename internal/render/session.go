package render

import (
	"context"
	"fmt"
	"image"
	"sync"

	"bayer-bender/internal/logger"
	"bayer-bender/internal/params"
	"bayer-bender/internal/tonemap"
)

const sessionComponent = "RenderSession"

// Session owns the rendering resources for one loaded image: the device, the
// source texture, the uniform block and the stage configuration. All handles
// are scoped to the session and released together by Close; nothing lives in
// package-level state.
type Session struct {
	mu       sync.Mutex
	device   Device
	texture  Texture
	uniforms *UniformBlock
	stages   tonemap.Stages
	log      logger.Logger
	closed   bool
}

// NewSession uploads img to the device and allocates a uniform block sized
// for the initial matrix. The session takes ownership of the device.
func NewSession(device Device, img image.Image, initial params.Adjustments, stages tonemap.Stages, log logger.Logger) (*Session, error) {
	if log == nil {
		log = logger.Nop{}
	}
	if initial.Matrix == nil {
		return nil, fmt.Errorf("initial parameters need a threshold matrix")
	}

	texture, err := device.CreateTexture(img)
	if err != nil {
		return nil, fmt.Errorf("creating source texture: %w", err)
	}
	uniforms, err := NewUniformBlock(initial.Matrix.Width() * initial.Matrix.Height())
	if err != nil {
		texture.Release()
		return nil, fmt.Errorf("allocating uniform block: %w", err)
	}

	log.Info(sessionComponent, "session created", map[string]interface{}{
		"backend":      device.Name(),
		"width":        texture.Bounds().Dx(),
		"height":       texture.Bounds().Dy(),
		"uniform_size": uniforms.Size(),
	})
	return &Session{
		device:   device,
		texture:  texture,
		uniforms: uniforms,
		stages:   stages,
		log:      log,
	}, nil
}

// Projection exposes the uniform block for the parameter store to write
// through. The block stays owned by the session.
func (s *Session) Projection() *UniformBlock {
	return s.uniforms
}

// Stages returns the currently enabled optional stages.
func (s *Session) Stages() tonemap.Stages {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stages
}

// SetStages reconfigures the optional stages. Takes effect on the next
// render.
func (s *Session) SetStages(stages tonemap.Stages) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stages = stages
}

// Render submits one frame against the current uniform snapshot.
func (s *Session) Render(ctx context.Context) (*image.NRGBA, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, fmt.Errorf("render session closed")
	}
	job := Job{Texture: s.texture, Uniforms: s.uniforms, Stages: s.stages}
	s.mu.Unlock()

	frame, err := s.device.Submit(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("submitting draw call: %w", err)
	}
	return frame, nil
}

// Close releases the texture and shuts the device down. Idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	s.texture.Release()
	err := s.device.Close()
	s.log.Info(sessionComponent, "session closed", nil)
	if err != nil {
		return fmt.Errorf("closing device: %w", err)
	}
	return nil
}

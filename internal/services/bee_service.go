package services

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/deploymenttheory/go-bee/internal/helpers"
	"github.com/deploymenttheory/go-bee/internal/parsers/bee"
	"github.com/deploymenttheory/go-bee/internal/types"
)

// Orchestrator holds one region header per active hardware engine and
// produces the encrypted image. FAC regions reach a header only through
// AddFacRegion, which enforces that no two regions overlap across
// engines; that makes the chained per-block encryption unambiguous, as
// at most one header ever transforms a given block.
type Orchestrator struct {
	headers     []*bee.RegionHeader
	image       []byte
	baseAddress uint32
}

// NewOrchestrator creates an orchestrator over an input image. The
// image is never mutated; windows of it are read by absolute address
// starting at baseAddress.
func NewOrchestrator(headers []*bee.RegionHeader, image []byte, baseAddress uint32) (*Orchestrator, error) {
	if len(headers) == 0 || len(headers) > types.BeeMaxEngines {
		return nil, fmt.Errorf("%w: %d region headers, expected 1..%d",
			types.ErrConfig, len(headers), types.BeeMaxEngines)
	}
	return &Orchestrator{
		headers:     headers,
		image:       image,
		baseAddress: baseAddress,
	}, nil
}

// Headers returns the region headers in engine order.
func (o *Orchestrator) Headers() []*bee.RegionHeader {
	return o.headers
}

// AddFacRegion registers a FAC region on the header at headerIndex
// after checking that its start address does not fall inside any region
// already registered on any engine.
func (o *Orchestrator) AddFacRegion(headerIndex int, fac *bee.FacRegion) error {
	if headerIndex < 0 || headerIndex >= len(o.headers) {
		return fmt.Errorf("%w: header index %d outside 0..%d",
			types.ErrConfig, headerIndex, len(o.headers)-1)
	}
	for _, header := range o.headers {
		for _, region := range header.Regions() {
			if region.Contains(fac.Start) {
				return fmt.Errorf("%w: start address 0x%08x lies inside %s",
					types.ErrOverlap, fac.Start, region)
			}
		}
	}
	return o.headers[headerIndex].AddRegion(fac)
}

// ExportImage walks the input image in 1024-byte windows and routes
// each window through every header's encryptor, concatenating the
// results. Windows outside all FAC regions pass through unchanged.
func (o *Orchestrator) ExportImage() ([]byte, error) {
	encrypted := make([]byte, 0, len(o.image))
	address := o.baseAddress
	for _, window := range helpers.SplitBlocks(o.image, types.BeeEncryptBlockSize) {
		logrus.WithFields(logrus.Fields{
			"address": fmt.Sprintf("0x%08x", address),
			"size":    fmt.Sprintf("0x%x", len(window)),
		}).Debug("processing image block")
		block := window
		for _, header := range o.headers {
			var err error
			if block, err = header.EncryptBlock(address, block); err != nil {
				return nil, err
			}
		}
		encrypted = append(encrypted, block...)
		address += uint32(len(block))
	}
	return encrypted, nil
}

// ExportHeaders returns one 512-byte serialized header per engine, to
// be embedded alongside the encrypted image by an external packer.
func (o *Orchestrator) ExportHeaders() ([][]byte, error) {
	headers := make([][]byte, 0, len(o.headers))
	for _, header := range o.headers {
		encoded, err := header.Encode()
		if err != nil {
			return nil, err
		}
		headers = append(headers, encoded)
	}
	return headers, nil
}

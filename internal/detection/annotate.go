package detection

import (
	"image"

	"github.com/ironsheep/astrocyte-mcp/internal/imaging"
)

// Annotate draws a filled disc at the center of each object. Object
// coordinates are shifted by -origin so that objects measured in a mask with a
// non-zero origin land on an image whose origin is (0, 0).
func (c *Classifier) Annotate(dst *image.RGBA, objects []Object, origin image.Point) {
	for _, o := range objects {
		imaging.DrawMarker(dst, o.Center.imagePoint().Sub(origin), c.cfg.MarkerRadius, c.cfg.MarkerColor)
	}
}

// AnnotateBands draws the band boundaries of the classifier's table on dst.
func (c *Classifier) AnnotateBands(dst *image.RGBA, hex string) {
	imaging.DrawBoundaries(dst, c.cfg.Bands.Boundaries(), imaging.ParseColorOr(hex, imaging.DefaultBandColor))
}

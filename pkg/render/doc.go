// Package render turns a laid-out declaration document into a raster bitmap.
//
// # Overview
//
// Rendering happens in two steps:
//
//   - [NewTarget] builds a detached render target from a [document.Document]:
//     a markup snapshot, the fixed page geometry and a private scratch
//     directory. Nothing about a target is ever displayed.
//   - [Rasterize] hands the target to an [Engine] at a fixed scale and returns
//     a [Bitmap] whose pixels outside the drawn content equal the page
//     background.
//
// # Engines
//
// Two engines are provided in subpackages:
//
//   - [native]: pure-Go software rasterizer built on gogpu/gg
//   - [chrome]: headless Chrome screenshot of the target's markup
//
// Tests and callers with their own sources can adapt a function with
// [EngineFunc].
//
//	target, err := render.NewTarget(doc, doc.Page)
//	if err != nil {
//	    return err
//	}
//	defer target.Close()
//	bmp, err := render.Rasterize(ctx, native.New(), target, render.DefaultScale)
//
// [native]: github.com/ghoshnapatra/ghoshna/pkg/render/native
// [chrome]: github.com/ghoshnapatra/ghoshna/pkg/render/chrome
package render

// Package encode writes fitted thumbnails to disk as JPEG, PNG or WEBP.
//
// JPEG and PNG use the standard library encoders. WEBP goes through
// github.com/chai2010/webp. Only NRGBA, RGBA and Gray frames are accepted
// for WEBP; other pixel layouts are rejected with ErrUnsupportedFrame
// rather than converted.
//
// PNG output is passed through an Optimizer after the first write. The
// optimizer must be lossless and must never leave a larger file behind:
//
//	enc := encode.New(encode.DefaultOptimizer())
//	if err := enc.Encode(img, mediatypes.PNG, 90, "thumb.png"); err != nil {
//	    if errors.Is(err, encode.ErrOptimize) {
//	        // thumb.png is still a valid, unoptimized PNG
//	    }
//	}
package encode

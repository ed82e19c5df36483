// Package codec is the image capability layer: guarded decoding, bounded
// resizing, and JPEG/WebP encoding. Every other package goes through it
// instead of calling the image libraries directly, so decode limits and
// quality presets live in one place.
package codec

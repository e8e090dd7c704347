// Package encryption implements whole-buffer file encryption with AES in the
// ECB, CBC, CFB, OFB and CTR chaining modes.
//
// An Engine owns a key, a Mode and, for every mode but ECB, a 16-byte IV.
// ECB and CBC apply PKCS#7 padding; the stream modes keep the plaintext length.
// None of the modes authenticate data.
//
// Seal and Open functions add the on-disk framing (salt and IV prefixes), and
// Processor ties everything to files with atomic output replacement.
package encryption

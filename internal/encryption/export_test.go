package encryption

// WithBlockFactory replaces the AES constructor, for injecting faulty primitives.
var WithBlockFactory = withBlockFactory

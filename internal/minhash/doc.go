// Package minhash computes MinHash fingerprints of shingle sets.
//
// A fingerprint has one component per permutation. Permutations are
// simulated by XOR-ing each reduced shingle hash with a random mask from a
// PermutationBank, so a shingle is hashed once regardless of sketch length.
// Component i is the minimum of hash XOR mask[i] over all shingles, and the
// probability that two documents agree on a component equals the Jaccard
// similarity of their shingle sets.
//
// All arithmetic is on uint64 values reduced to the configured working
// width with Reduce, so results are bit-exact across platforms.
package minhash

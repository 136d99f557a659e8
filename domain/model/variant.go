package model

import (
	"fmt"

	"gpcorr/domain/core"
)

// VariantEffect is a predicted functional consequence of a variant on a
// transcript, named after the Sequence Ontology vocabulary.
type VariantEffect string

const (
	TranscriptAblation    VariantEffect = "TRANSCRIPT_ABLATION"
	SpliceAcceptorVariant VariantEffect = "SPLICE_ACCEPTOR_VARIANT"
	SpliceDonorVariant    VariantEffect = "SPLICE_DONOR_VARIANT"
	StopGained            VariantEffect = "STOP_GAINED"
	FrameshiftVariant     VariantEffect = "FRAMESHIFT_VARIANT"
	StopLost              VariantEffect = "STOP_LOST"
	StartLost             VariantEffect = "START_LOST"
	InframeInsertion      VariantEffect = "INFRAME_INSERTION"
	InframeDeletion       VariantEffect = "INFRAME_DELETION"
	MissenseVariant       VariantEffect = "MISSENSE_VARIANT"
	SpliceRegionVariant   VariantEffect = "SPLICE_REGION_VARIANT"
	SynonymousVariant     VariantEffect = "SYNONYMOUS_VARIANT"
	IntronVariant         VariantEffect = "INTRON_VARIANT"
	FivePrimeUTRVariant   VariantEffect = "FIVE_PRIME_UTR_VARIANT"
	ThreePrimeUTRVariant  VariantEffect = "THREE_PRIME_UTR_VARIANT"
)

func (e VariantEffect) String() string { return string(e) }

// Genotype is the zygosity call of a variant in one sample.
type Genotype int

const (
	GenotypeNoCall Genotype = iota
	GenotypeHomozygousReference
	GenotypeHeterozygous
	GenotypeHomozygousAlternate
	GenotypeHemizygous
)

// AlleleCount returns how many alternate alleles the call carries.
func (g Genotype) AlleleCount() int {
	switch g {
	case GenotypeHeterozygous, GenotypeHemizygous:
		return 1
	case GenotypeHomozygousAlternate:
		return 2
	default:
		return 0
	}
}

func (g Genotype) String() string {
	switch g {
	case GenotypeHomozygousReference:
		return "0/0"
	case GenotypeHeterozygous:
		return "0/1"
	case GenotypeHomozygousAlternate:
		return "1/1"
	case GenotypeHemizygous:
		return "1"
	default:
		return "."
	}
}

// Region is a half-open [Start, End) coordinate interval.
type Region struct {
	Start int
	End   int
}

// NewRegion creates a region, validating the bounds.
func NewRegion(start, end int) (Region, error) {
	if start < 0 || end < start {
		return Region{}, core.ValidationError("invalid region [%d, %d)", start, end)
	}
	return Region{Start: start, End: end}, nil
}

// Overlaps reports whether two regions share at least one position.
func (r Region) Overlaps(other Region) bool {
	return r.Start < other.End && other.Start < r.End
}

// Len returns the region length.
func (r Region) Len() int { return r.End - r.Start }

// VariantCoordinates pins a variant to a genomic position and allele
// pair. ChangeLength is alt length minus ref length: zero for SNVs and
// MNVs, negative for deletions, positive for insertions.
type VariantCoordinates struct {
	Contig       string
	Start        int
	End          int
	Ref          string
	Alt          string
	ChangeLength int
}

// Key returns the canonical variant key used to identify an allele
// across individuals.
func (c VariantCoordinates) Key() string {
	return fmt.Sprintf("%s_%d_%d_%s_%s", c.Contig, c.Start, c.End, c.Ref, c.Alt)
}

// Region returns the genomic interval the variant spans.
func (c VariantCoordinates) Region() Region {
	return Region{Start: c.Start, End: c.End}
}

// TranscriptAnnotation is the predicted functional impact of a variant
// on one transcript, as produced by an external annotation service.
type TranscriptAnnotation struct {
	GeneSymbol       string
	TranscriptID     string
	Effects          []VariantEffect
	OverlappingExons []int
	ProteinID        string
	ProteinRegion    *Region
}

// HasEffect reports whether the annotation predicts the given effect.
func (a TranscriptAnnotation) HasEffect(effect VariantEffect) bool {
	for _, e := range a.Effects {
		if e == effect {
			return true
		}
	}
	return false
}

// AffectsExon reports whether the variant overlaps the 1-based exon.
func (a TranscriptAnnotation) AffectsExon(exon int) bool {
	for _, e := range a.OverlappingExons {
		if e == exon {
			return true
		}
	}
	return false
}

// Variant is one genomic variant with its functional annotations and
// the zygosity calls of the samples that carry it.
type Variant struct {
	coordinates VariantCoordinates
	annotations []TranscriptAnnotation
	genotypes   map[SampleID]Genotype
}

// NewVariant creates a variant value. The genotype map is copied.
func NewVariant(coordinates VariantCoordinates, annotations []TranscriptAnnotation, genotypes map[SampleID]Genotype) Variant {
	gt := make(map[SampleID]Genotype, len(genotypes))
	for id, g := range genotypes {
		gt[id] = g
	}
	ann := make([]TranscriptAnnotation, len(annotations))
	copy(ann, annotations)
	return Variant{coordinates: coordinates, annotations: ann, genotypes: gt}
}

// Coordinates returns the variant coordinates.
func (v Variant) Coordinates() VariantCoordinates { return v.coordinates }

// Key returns the canonical variant key.
func (v Variant) Key() string { return v.coordinates.Key() }

// Annotations returns the per-transcript functional annotations.
func (v Variant) Annotations() []TranscriptAnnotation { return v.annotations }

// AnnotationForTranscript returns the annotation on the given
// transcript, if the variant has one.
func (v Variant) AnnotationForTranscript(txID string) (TranscriptAnnotation, bool) {
	for _, a := range v.annotations {
		if a.TranscriptID == txID {
			return a, true
		}
	}
	return TranscriptAnnotation{}, false
}

// GenotypeOf returns the zygosity call for a sample, GenotypeNoCall if
// the sample was not genotyped for this variant.
func (v Variant) GenotypeOf(id SampleID) Genotype {
	return v.genotypes[id]
}

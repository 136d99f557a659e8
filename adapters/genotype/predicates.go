package genotype

import (
	"fmt"
	"strings"

	"gpcorr/domain/core"
	"gpcorr/domain/model"
)

// VariantPredicate decides whether a variant belongs to the allele
// group under study. Predicates are pure and carry a description for
// reporting.
type VariantPredicate interface {
	Description() string
	Test(variant model.Variant) bool
}

type effectPredicate struct {
	effect model.VariantEffect
	txID   string
}

// EffectOnTranscript matches variants predicted to have the given
// functional effect on the transcript.
func EffectOnTranscript(effect model.VariantEffect, txID string) VariantPredicate {
	return &effectPredicate{effect: effect, txID: txID}
}

func (p *effectPredicate) Description() string {
	return fmt.Sprintf("%s on %s", p.effect, p.txID)
}

func (p *effectPredicate) Test(variant model.Variant) bool {
	ann, ok := variant.AnnotationForTranscript(p.txID)
	return ok && ann.HasEffect(p.effect)
}

type keyPredicate struct {
	key string
}

// VariantKey matches exactly one allele by its canonical key, e.g.
// "16_89279134_89279135_G_GC".
func VariantKey(key string) VariantPredicate {
	return &keyPredicate{key: key}
}

func (p *keyPredicate) Description() string {
	return fmt.Sprintf("variant is %s", p.key)
}

func (p *keyPredicate) Test(variant model.Variant) bool {
	return variant.Key() == p.key
}

type genePredicate struct {
	symbol string
}

// AffectsGene matches variants with an annotation on any transcript of
// the gene.
func AffectsGene(symbol string) VariantPredicate {
	return &genePredicate{symbol: symbol}
}

func (p *genePredicate) Description() string {
	return fmt.Sprintf("affects %s", p.symbol)
}

func (p *genePredicate) Test(variant model.Variant) bool {
	for _, ann := range variant.Annotations() {
		if ann.GeneSymbol == p.symbol {
			return true
		}
	}
	return false
}

type transcriptPredicate struct {
	txID string
}

// AffectsTranscript matches variants annotated on the transcript.
func AffectsTranscript(txID string) VariantPredicate {
	return &transcriptPredicate{txID: txID}
}

func (p *transcriptPredicate) Description() string {
	return fmt.Sprintf("affects %s", p.txID)
}

func (p *transcriptPredicate) Test(variant model.Variant) bool {
	_, ok := variant.AnnotationForTranscript(p.txID)
	return ok
}

type exonPredicate struct {
	txID string
	exon int
}

// OverlapsExon matches variants overlapping the 1-based exon of the
// transcript.
func OverlapsExon(txID string, exon int) (VariantPredicate, error) {
	if exon < 1 {
		return nil, core.ValidationError("exon number must be positive, got %d", exon)
	}
	return &exonPredicate{txID: txID, exon: exon}, nil
}

func (p *exonPredicate) Description() string {
	return fmt.Sprintf("overlaps exon %d of %s", p.exon, p.txID)
}

func (p *exonPredicate) Test(variant model.Variant) bool {
	ann, ok := variant.AnnotationForTranscript(p.txID)
	return ok && ann.AffectsExon(p.exon)
}

type proteinRegionPredicate struct {
	txID   string
	region model.Region
}

// ChangesProteinRegion matches variants whose protein-level change on
// the transcript overlaps the given residue region.
func ChangesProteinRegion(txID string, region model.Region) VariantPredicate {
	return &proteinRegionPredicate{txID: txID, region: region}
}

func (p *proteinRegionPredicate) Description() string {
	return fmt.Sprintf("changes protein residues [%d, %d) on %s", p.region.Start, p.region.End, p.txID)
}

func (p *proteinRegionPredicate) Test(variant model.Variant) bool {
	ann, ok := variant.AnnotationForTranscript(p.txID)
	return ok && ann.ProteinRegion != nil && ann.ProteinRegion.Overlaps(p.region)
}

type changeLengthPredicate struct {
	op    string
	value int
}

// ChangeLength matches variants by comparing their change length, alt
// minus ref, against a threshold. op is one of <, <=, ==, !=, >= or >.
// Deletions have negative change lengths, so "large deletions" reads
// ChangeLength("<=", -50).
func ChangeLength(op string, value int) (VariantPredicate, error) {
	switch op {
	case "<", "<=", "==", "!=", ">=", ">":
		return &changeLengthPredicate{op: op, value: value}, nil
	default:
		return nil, core.ValidationError("unknown change length operator %q", op)
	}
}

func (p *changeLengthPredicate) Description() string {
	return fmt.Sprintf("change length %s %d", p.op, p.value)
}

func (p *changeLengthPredicate) Test(variant model.Variant) bool {
	n := variant.Coordinates().ChangeLength
	switch p.op {
	case "<":
		return n < p.value
	case "<=":
		return n <= p.value
	case "==":
		return n == p.value
	case "!=":
		return n != p.value
	case ">=":
		return n >= p.value
	default:
		return n > p.value
	}
}

type anyPredicate struct{}

// AnyVariant matches every variant.
func AnyVariant() VariantPredicate { return anyPredicate{} }

func (anyPredicate) Description() string             { return "any variant" }
func (anyPredicate) Test(variant model.Variant) bool { return true }

type andPredicate struct {
	operands []VariantPredicate
}

// AllOf matches variants passing every operand, short-circuiting.
func AllOf(operands ...VariantPredicate) VariantPredicate {
	return &andPredicate{operands: operands}
}

func (p *andPredicate) Description() string {
	return combineDescriptions(p.operands, " AND ")
}

func (p *andPredicate) Test(variant model.Variant) bool {
	for _, op := range p.operands {
		if !op.Test(variant) {
			return false
		}
	}
	return true
}

type orPredicate struct {
	operands []VariantPredicate
}

// AnyOf matches variants passing at least one operand, short-circuiting.
func AnyOf(operands ...VariantPredicate) VariantPredicate {
	return &orPredicate{operands: operands}
}

func (p *orPredicate) Description() string {
	return combineDescriptions(p.operands, " OR ")
}

func (p *orPredicate) Test(variant model.Variant) bool {
	for _, op := range p.operands {
		if op.Test(variant) {
			return true
		}
	}
	return false
}

type notPredicate struct {
	operand VariantPredicate
}

// Not inverts a predicate.
func Not(operand VariantPredicate) VariantPredicate {
	if inner, ok := operand.(*notPredicate); ok {
		return inner.operand
	}
	return &notPredicate{operand: operand}
}

func (p *notPredicate) Description() string {
	return fmt.Sprintf("NOT (%s)", p.operand.Description())
}

func (p *notPredicate) Test(variant model.Variant) bool {
	return !p.operand.Test(variant)
}

func combineDescriptions(operands []VariantPredicate, sep string) string {
	parts := make([]string, len(operands))
	for i, op := range operands {
		parts[i] = op.Description()
	}
	return "(" + strings.Join(parts, sep) + ")"
}

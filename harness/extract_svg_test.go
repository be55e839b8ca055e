package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSVG = `<svg>
  <g class="participant participant-head"><rect/><text>Alice</text></g>
  <g class="participant participant-head"><rect/><text>Bob</text></g>
  <path fill="#FEFFDD"/><path fill="#FEFFDD"/><text>hello</text>
  <rect width="10" fill="#FFFFFF" x="12.0" y="40.0"/>
  <rect width="10" fill="#FFFFFF" x="12.0" y="40.0"/>
  <path fill="#EEEEEE"/><text>loop</text>
</svg>`

func TestExtractSVGParticipantsAndNotes(t *testing.T) {
	d, err := ExtractSVG(sampleSVG, "sequence")
	require.NoError(t, err)

	require.Len(t, d.Participants, 2)
	assert.Equal(t, "alice", d.Participants[0].Name)
	assert.Equal(t, "bob", d.Participants[1].Name)

	require.Len(t, d.Notes, 1)
	assert.Equal(t, "hello", d.Notes[0].Text)

	require.Len(t, d.Fragments, 1)
	assert.Equal(t, "loop", d.Fragments[0].Kind)

	var total int
	for _, c := range d.ActivationCounts {
		total += c
	}
	assert.Equal(t, 1, total, "duplicate activation rect at same x|y should be deduplicated")
}

func TestExtractSVGFallsBackToQualifiedName(t *testing.T) {
	svg := `<g data-qualified-name="com.example.Widget"/>`
	d, err := ExtractSVG(svg, "class")
	require.NoError(t, err)
	require.Len(t, d.Participants, 1)
	assert.Equal(t, "com.example.widget", d.Participants[0].Name)
}

func TestExtractSVGActorHeadGetsActorTypeIndex(t *testing.T) {
	svg := `<svg><g class="actor actor-head"><rect/><text>Alice</text></g></svg>`
	d, err := ExtractSVG(svg, "sequence")
	require.NoError(t, err)
	require.Len(t, d.Participants, 1)
	assert.Equal(t, KindActor, d.Participants[0].TypeIndex)
}

func TestExtractSVGMemberRowsCountedPerEntity(t *testing.T) {
	svg := `<svg>
  <g data-entity-uid="uid-1" data-qualified-name="Order">
    <text data-entity-1="name"/>
    <text data-entity-2="price"/>
  </g>
  <g data-entity-uid="uid-2" data-qualified-name="Customer">
    <text data-entity-1="name"/>
  </g>
</svg>`
	d, err := ExtractSVG(svg, "class")
	require.NoError(t, err)
	require.Len(t, d.Participants, 2)
	assert.Equal(t, "order", d.Participants[0].Name)
	assert.Equal(t, 2, d.Participants[0].MemberCount)
	assert.Equal(t, "customer", d.Participants[1].Name)
	assert.Equal(t, 1, d.Participants[1].MemberCount)
}

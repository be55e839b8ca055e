package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDrawio = `<mxfile>
  <diagram>
    <mxGraphModel>
      <root>
        <mxCell id="0" />
        <mxCell id="1" parent="0" />
        <mxCell id="lane-alice" value="Alice" style="shape=umlLifeline;" vertex="1" parent="1" />
        <mxCell id="lane-bob" value="Bob" style="shape=umlLifeline;" vertex="1" parent="1" />
        <mxCell id="act-1" value="" style="fillColor=#E8E8E8;strokeColor=#000000;" vertex="1" parent="lane-alice" />
        <mxCell id="note-1" value="hello" style="shape=note;" vertex="1" parent="1" />
        <mxCell id="msg-1" value="doWork" style="endArrow=block;endFill=1;" edge="1" source="lane-alice" target="lane-bob" parent="1" />
        <mxCell id="msg-2" value="ack" style="endArrow=open;dashed=1;" edge="1" source="lane-bob" target="lane-alice" parent="1" />
      </root>
    </mxGraphModel>
  </diagram>
</mxfile>`

func TestExtractDrawioParticipantsAndEdges(t *testing.T) {
	d, err := ExtractDrawio(sampleDrawio, "sequence")
	require.NoError(t, err)

	names := []string{}
	for _, p := range d.Participants {
		names = append(names, p.Name)
	}
	assert.Contains(t, names, "alice")
	assert.Contains(t, names, "bob")

	require.Len(t, d.Edges, 2)
	assert.Equal(t, "alice", d.Edges[0].From)
	assert.Equal(t, "bob", d.Edges[0].To)
	assert.Equal(t, "filled", d.Edges[0].ArrowType)
	assert.False(t, d.Edges[0].Dashed)

	assert.Equal(t, "open", d.Edges[1].ArrowType)
	assert.True(t, d.Edges[1].Dashed)

	require.Len(t, d.Notes, 1)
	assert.Equal(t, "hello", d.Notes[0].Text)

	assert.Equal(t, 1, d.ActivationCounts["alice"])
}

const sampleDrawioWithFragmentAndMembers = `<mxfile>
  <diagram>
    <mxGraphModel>
      <root>
        <mxCell id="0" />
        <mxCell id="1" parent="0" />
        <mxCell id="frag-1" value="alt [x &gt; 0]" style="rounded=0;whiteSpace=wrap;html=1;fillColor=none;verticalAlign=top;horizontal=0;" vertex="1" parent="1" />
        <mxCell id="cls-order" value="Order" style="swimlane;verticalAlign=top;startSize=26;" vertex="1" parent="1" />
        <mxCell id="row-1" value="+id: int" style="text;html=1;" vertex="1" parent="cls-order" />
        <mxCell id="row-2" value="+name: string" style="text;html=1;" vertex="1" parent="cls-order" />
      </root>
    </mxGraphModel>
  </diagram>
</mxfile>`

func TestExtractDrawioFragmentKind(t *testing.T) {
	d, err := ExtractDrawio(sampleDrawioWithFragmentAndMembers, "sequence")
	require.NoError(t, err)
	require.Len(t, d.Fragments, 1)
	assert.Equal(t, "alt", d.Fragments[0].Kind)
}

func TestExtractDrawioMemberCountAndTypeIndex(t *testing.T) {
	d, err := ExtractDrawio(sampleDrawioWithFragmentAndMembers, "class")
	require.NoError(t, err)

	var order *NormalizedParticipant
	for i := range d.Participants {
		if d.Participants[i].Name == "order" {
			order = &d.Participants[i]
		}
	}
	require.NotNil(t, order)
	assert.Equal(t, KindContainer, order.TypeIndex)
	assert.Equal(t, 2, order.MemberCount)
}

func TestExtractDrawioMalformedXML(t *testing.T) {
	_, err := ExtractDrawio("<mxfile><diagram>", "sequence")
	assert.Error(t, err)
}

func TestNormalizeTextCollapsesWhitespaceAndBr(t *testing.T) {
	assert.Equal(t, "hello world", normalizeText("  Hello<br>World  "))
}

package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"go.viam.com/test"

	img "shapecaptcha/internal/image"
	"shapecaptcha/internal/shape"
	"shapecaptcha/internal/testutils"
)

func TestFileSinkAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dataset.jsonl")
	sink := NewFileSink(path)

	d := shape.Descriptor{Type: shape.Square, Area: 1600, Vertices: 4}
	test.That(t, sink.Save("AAAA", d, "pick the square"), test.ShouldBeNil)
	test.That(t, sink.Save("BBBB", shape.EmptyDescriptor(), "pick the circle"), test.ShouldBeNil)

	raw, err := os.ReadFile(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, strings.Count(string(raw), "\n"), test.ShouldEqual, 2)
	test.That(t, strings.SplitN(string(raw), "\n", 2)[0], test.ShouldEqual,
		`{"image":"AAAA","meta":{"instruction":"pick the square"},"label":{"type":"square","area":1600,"vertices":4}}`)

	records, err := Load(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, records, test.ShouldHaveLength, 2)
	test.That(t, records[1].Label.Type, test.ShouldEqual, shape.Unknown)
	test.That(t, records[1].Meta.Instruction, test.ShouldEqual, "pick the circle")
}

func TestFileSinkConcurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.jsonl")
	sink := NewFileSink(path)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			test.That(t, sink.Save("AAAA", shape.EmptyDescriptor(), "x"), test.ShouldBeNil)
		}()
	}
	wg.Wait()

	records, err := Load(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, records, test.ShouldHaveLength, 16)
}

func TestReadSkipsBlankLines(t *testing.T) {
	in := `{"image":"a","meta":{"instruction":"i"},"label":{"type":"circle","area":3,"vertices":9}}

{"image":"b","meta":{"instruction":"i"},"label":{"type":"circle","area":4,"vertices":9}}
`
	records, err := Read(strings.NewReader(in))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, records, test.ShouldHaveLength, 2)
	test.That(t, Summarize(records), test.ShouldResemble, Stats{Total: 2, ByType: map[shape.Label]int{shape.Circle: 2}})

	_, err = Read(bytes.NewBufferString("{not json}\n"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "line 1")
}

func TestNop(t *testing.T) {
	var s Sink = Nop{}
	test.That(t, s.Save("", shape.EmptyDescriptor(), ""), test.ShouldBeNil)
}

func TestImageDumper(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "debug")
	d := NewImageDumper(dir)

	uri := testutils.DataURI(t, testutils.Circle(40, 10, testutils.Red, testutils.White))
	path, err := d.Dump(1, 2, uri, shape.Circle)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, path, test.ShouldEqual, filepath.Join(dir, "s1_i2_circle.png"))

	r, err := img.Load(path)
	test.That(t, err, test.ShouldBeNil)
	defer r.Close()
	test.That(t, r.Width, test.ShouldEqual, 40)

	_, err = d.Dump(0, 0, "", shape.Unknown)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestFileName(t *testing.T) {
	test.That(t, FileName(0, 3, shape.UnknownVertices(2)), test.ShouldEqual, "s0_i3_unknown-2.png")
}

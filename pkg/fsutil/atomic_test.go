package fsutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/idrees11/gnn-topology-ablation/pkg/fsutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestWriteFileAtomic(t *testing.T) {
	Convey("Given a target inside a directory that does not exist yet", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "nested", "out.txt")

		Convey("When the file is written twice", func() {
			So(fsutil.WriteFileAtomic(path, []byte("first"), 0o644), ShouldBeNil)
			So(fsutil.WriteFileAtomic(path, []byte("second"), 0o644), ShouldBeNil)

			Convey("Then only the latest content remains and no temp files are left", func() {
				got, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				So(string(got), ShouldEqual, "second")

				entries, err := os.ReadDir(filepath.Dir(path))
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 1)
			})
		})
	})
}

package ledger

import (
	"errors"
	"io/fs"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocalStorage", func() {
	var (
		tmpDir  string
		storage Storage
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		var err error
		storage, err = NewLocalStorage(filepath.Join(tmpDir, "uploads"))
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Save", func() {
		It("writes the file and returns its name", func() {
			savedPath, err := storage.Save("id_receipt.jpg", []byte("test file content"))
			Expect(err).NotTo(HaveOccurred())
			Expect(savedPath).To(Equal("id_receipt.jpg"))
			Expect(filepath.Join(tmpDir, "uploads", "id_receipt.jpg")).To(BeAnExistingFile())
		})

		It("rejects names that leave the directory", func() {
			_, err := storage.Save("../escape.txt", []byte("x"))
			Expect(err).To(MatchError(ContainSubstring("invalid file name")))
			Expect(filepath.Join(tmpDir, "escape.txt")).NotTo(BeAnExistingFile())
		})
	})

	Describe("Get", func() {
		It("reads a saved file", func() {
			_, err := storage.Save("a.pdf", []byte("pdf bytes"))
			Expect(err).NotTo(HaveOccurred())

			data, err := storage.Get("a.pdf")
			Expect(err).NotTo(HaveOccurred())
			Expect(data).To(Equal([]byte("pdf bytes")))
		})

		It("fails for a missing file", func() {
			_, err := storage.Get("missing.pdf")
			Expect(err).To(MatchError(ContainSubstring("reading file")))
		})
	})

	Describe("Delete", func() {
		It("removes the file", func() {
			_, err := storage.Save("a.pdf", []byte("pdf bytes"))
			Expect(err).NotTo(HaveOccurred())

			Expect(storage.Delete("a.pdf")).To(Succeed())
			Expect(filepath.Join(tmpDir, "uploads", "a.pdf")).NotTo(BeAnExistingFile())
		})

		It("fails for a missing file", func() {
			err := storage.Delete("missing.pdf")
			Expect(err).To(MatchError(ContainSubstring("deleting file")))
			Expect(errors.Is(err, fs.ErrNotExist)).To(BeTrue())
		})
	})
})

/*
Package reader loads documents from knowledge base sources.

A Reader is configured from registration options and returns the full
document list in one blocking call; failures are fatal to the owning
knowledge base's ingestion and park it in the error state. The Registry
maps source-type tags to reader factories, so adding a source type means
registering a factory and nothing else. The built-in types (local_store,
onlysaid-kb) both walk a local directory tree, one document per regular
file, with the relative directory path as the document's folder id.
*/
package reader
